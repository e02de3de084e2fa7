package client

import (
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"
)

// Result is a decoded JSON response body. The zero Result is empty.
type Result struct {
	raw []byte
}

// NewResult wraps raw JSON. It does not validate raw.
func NewResult(raw []byte) Result {
	return Result{raw: raw}
}

// Raw returns the JSON text.
func (r Result) Raw() []byte {
	return r.raw
}

func (r Result) String() string {
	return string(r.raw)
}

// Text returns strings unquoted and any other value as its JSON text.
func (r Result) Text() string {
	return gjson.ParseBytes(r.raw).String()
}

// Float returns r as a number. Numeric strings are parsed; anything else is 0.
func (r Result) Float() float64 {
	return gjson.ParseBytes(r.raw).Float()
}

// Exists reports whether r holds any value.
func (r Result) Exists() bool {
	return len(r.raw) > 0
}

// IsArray reports whether r is a JSON array.
func (r Result) IsArray() bool {
	return gjson.ParseBytes(r.raw).IsArray()
}

// Value decodes r into the generic map/slice representation.
func (r Result) Value() (any, error) {
	var v any
	if err := json.Unmarshal(r.raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode unmarshals r into v.
func (r Result) Decode(v any) error {
	return json.Unmarshal(r.raw, v)
}

// Get returns the value at a gjson path, or an empty Result.
func (r Result) Get(path string) Result {
	g := gjson.GetBytes(r.raw, path)
	if !g.Exists() {
		return Result{}
	}
	return Result{raw: []byte(g.Raw)}
}

// Unwrap returns the value under key when present and r itself otherwise.
// Most resources wrap their payload in a single named envelope.
func (r Result) Unwrap(key string) Result {
	if v := r.Get(key); v.Exists() {
		return v
	}
	return r
}

// List returns the value at path as a slice, treating a lone object as a
// one-element list and a missing value as empty.
func (r Result) List(path string) []Result {
	v := r.Get(path)
	if !v.Exists() {
		return nil
	}
	g := gjson.ParseBytes(v.raw)
	if !g.IsArray() {
		return []Result{v}
	}
	items := g.Array()
	out := make([]Result, 0, len(items))
	for _, it := range items {
		out = append(out, Result{raw: []byte(it.Raw)})
	}
	return out
}

// decode turns a response into a Result: 200 with a JSON body, or an *Error.
func decode(url string, status int, header http.Header, body []byte) (Result, error) {
	if status != http.StatusOK {
		return Result{}, newHTTPError(url, status, header, body)
	}
	if !gjson.ValidBytes(body) {
		return Result{}, &Error{
			Kind:       KindMalformedResponse,
			URL:        url,
			StatusCode: status,
			Message:    "response body is not valid JSON",
			Header:     header,
			Body:       body,
		}
	}
	return Result{raw: body}, nil
}
