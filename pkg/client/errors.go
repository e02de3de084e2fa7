package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Response headers carrying the service's own error details.
const (
	HeaderErrorCode    = "X-Odesk-Error-Code"
	HeaderErrorMessage = "X-Odesk-Error-Message"
)

// notAvailable substitutes a missing error header.
const notAvailable = "N/A"

// Kind classifies an Error.
type Kind int

// Error kinds.
const (
	KindValidation Kind = iota + 1
	KindUnsupportedVerb
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindHTTP
	KindMalformedResponse
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrValidation        = errors.New("validation error")
	ErrUnsupportedVerb   = errors.New("unsupported verb")
	ErrBadRequest        = errors.New("bad request")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrHTTP              = errors.New("http error")
	ErrMalformedResponse = errors.New("malformed response")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindUnsupportedVerb:
		return ErrUnsupportedVerb
	case KindBadRequest:
		return ErrBadRequest
	case KindUnauthorized:
		return ErrUnauthorized
	case KindForbidden:
		return ErrForbidden
	case KindNotFound:
		return ErrNotFound
	case KindHTTP:
		return ErrHTTP
	case KindMalformedResponse:
		return ErrMalformedResponse
	default:
		return nil
	}
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned for every failure the client detects itself: local
// validation, unsupported verbs, non-200 responses and undecodable bodies.
// Transport failures (network, context cancellation) are returned wrapped
// but are not *Error values.
type Error struct {
	Kind Kind

	// URL is the requested URL, without the signed query string.
	URL string

	// StatusCode is zero for errors raised before a request was sent.
	StatusCode int

	// Code and ServiceMessage are the raw service error headers, "N/A" when absent.
	Code           string
	ServiceMessage string

	// Message is the human-readable description, "Code <code>: <message>" for HTTP errors.
	Message string

	Header http.Header
	Body   []byte

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	switch {
	case e.StatusCode != 0 && e.URL != "":
		fmt.Fprintf(&b, " (status %d, url %s)", e.StatusCode, e.URL)
	case e.URL != "":
		fmt.Fprintf(&b, " (url %s)", e.URL)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewValidationError reports a disallowed or missing argument detected before
// any network call.
func NewValidationError(format string, args ...any) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsValidationError returns true if the request was rejected locally.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsBadRequest returns true for HTTP 400 responses.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// IsUnauthorized returns true for HTTP 401 responses.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden returns true for HTTP 403 responses.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFound returns true for HTTP 404 responses.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformedResponse returns true when a 200 response did not carry JSON.
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// StatusCode extracts the HTTP status from err, or 0 if err carries none.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

func newUnsupportedVerbError(url, method string) *Error {
	return &Error{
		Kind:    KindUnsupportedVerb,
		URL:     url,
		Message: fmt.Sprintf("%q, supported methods are GET, POST, PUT, DELETE", method),
	}
}

// newHTTPError maps a non-200 response to its error kind.
func newHTTPError(url string, status int, header http.Header, body []byte) *Error {
	code := headerOr(header, HeaderErrorCode, notAvailable)
	msg := headerOr(header, HeaderErrorMessage, notAvailable)

	kind := KindHTTP
	switch status {
	case http.StatusBadRequest:
		kind = KindBadRequest
	case http.StatusUnauthorized:
		kind = KindUnauthorized
	case http.StatusForbidden:
		kind = KindForbidden
	case http.StatusNotFound:
		kind = KindNotFound
	}

	return &Error{
		Kind:           kind,
		URL:            url,
		StatusCode:     status,
		Code:           code,
		ServiceMessage: msg,
		Message:        fmt.Sprintf("Code %s: %s", code, msg),
		Header:         header,
		Body:           body,
	}
}

// headerOr returns the value of key, or fallback when the header is absent.
// A header sent empty stays empty.
func headerOr(header http.Header, key, fallback string) string {
	if len(header.Values(key)) == 0 {
		return fallback
	}
	return header.Get(key)
}
