// Package oauth1 signs outgoing requests with OAuth 1.0a HMAC-SHA1 parameters.
//
// A Signer holds the long-lived consumer credentials. Each call to Sign
// draws a fresh nonce and timestamp, so a signed parameter string is never
// reused between requests. Both sources can be replaced to make signatures
// reproducible:
//
//	s := oauth1.NewSigner(creds,
//	    oauth1.WithNonce(func() string { return "fixed" }),
//	    oauth1.WithClock(func() time.Time { return time.Unix(1300000000, 0) }),
//	)
//	encoded, err := s.Sign(http.MethodGet, "https://www.odesk.com/api/hr/v2/jobs/123.json", tok, nil)
package oauth1

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 is mandated by the service
	"encoding/base64"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Parameter names and fixed values used in every signed request.
const (
	ParamConsumerKey     = "oauth_consumer_key"
	ParamToken           = "oauth_token"
	ParamSignatureMethod = "oauth_signature_method"
	ParamTimestamp       = "oauth_timestamp"
	ParamNonce           = "oauth_nonce"
	ParamVersion         = "oauth_version"
	ParamSignature       = "oauth_signature"

	SignatureMethod = "HMAC-SHA1"
	Version         = "1.0"
)

// Credentials identify the application. They never change for the lifetime
// of a client.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
}

// Token is the per-user session token pair obtained from the authorization
// handshake.
type Token struct {
	Key    string
	Secret string
}

// Signer computes signed parameter strings. It holds no mutable state and is
// safe for concurrent use.
type Signer struct {
	creds Credentials
	nonce func() string
	now   func() time.Time
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithNonce replaces the nonce source.
func WithNonce(fn func() string) SignerOption {
	return func(s *Signer) {
		s.nonce = fn
	}
}

// WithClock replaces the time source used for oauth_timestamp.
func WithClock(fn func() time.Time) SignerOption {
	return func(s *Signer) {
		s.now = fn
	}
}

// NewSigner returns a Signer for the given consumer credentials.
func NewSigner(creds Credentials, opts ...SignerOption) *Signer {
	s := &Signer{
		creds: creds,
		nonce: randomNonce,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Credentials returns the consumer credentials the signer was built with.
func (s *Signer) Credentials() Credentials {
	return s.creds
}

// Sign returns the complete percent-encoded parameter string for one request:
// the caller parameters, any query parameters already present on rawURL, the
// OAuth protocol parameters and oauth_signature, sorted by encoded key and
// then by encoded value. A nil token signs an anonymous request.
func (s *Signer) Sign(method, rawURL string, token *Token, params url.Values) (string, error) {
	base, query, _ := strings.Cut(rawURL, "?")

	all := url.Values{}
	if query != "" {
		existing, err := url.ParseQuery(query)
		if err != nil {
			return "", err
		}
		merge(all, existing)
	}
	merge(all, params)

	all.Set(ParamConsumerKey, s.creds.ConsumerKey)
	all.Set(ParamSignatureMethod, SignatureMethod)
	all.Set(ParamTimestamp, strconv.FormatInt(s.now().Unix(), 10))
	all.Set(ParamNonce, s.nonce())
	all.Set(ParamVersion, Version)

	tokenSecret := ""
	if token != nil {
		all.Set(ParamToken, token.Key)
		tokenSecret = token.Secret
	}

	all.Set(ParamSignature, Signature(s.creds.ConsumerSecret, tokenSecret, BaseString(method, base, all)))
	return Normalize(all), nil
}

// BaseString builds the signature base string. baseURL must not carry a
// query string; params must not contain oauth_signature.
func BaseString(method, baseURL string, params url.Values) string {
	unsigned := make(url.Values, len(params))
	for k, v := range params {
		if k == ParamSignature {
			continue
		}
		unsigned[k] = v
	}
	return strings.ToUpper(method) + "&" + Encode(baseURL) + "&" + Encode(Normalize(unsigned))
}

// Signature computes base64(HMAC-SHA1(key, base)) with the key built from
// both secrets. tokenSecret is empty for anonymous requests.
func Signature(consumerSecret, tokenSecret, base string) string {
	mac := hmac.New(sha1.New, []byte(Encode(consumerSecret)+"&"+Encode(tokenSecret)))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Normalize percent-encodes every key and value and joins the pairs with '&',
// ordered by encoded key and then by encoded value.
func Normalize(params url.Values) string {
	pairs := make([]pair, 0, len(params))
	for k, vs := range params {
		ek := Encode(k)
		for _, v := range vs {
			pairs = append(pairs, pair{key: ek, value: Encode(v)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value < pairs[j].value
	})

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	return b.String()
}

// Encode percent-encodes s per RFC 5849 section 3.6: unreserved characters
// are kept and every other byte becomes %XX with uppercase hex.
func Encode(s string) string {
	const hex = "0123456789ABCDEF"

	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	b := make([]byte, 0, len(s)+2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b = append(b, c)
			continue
		}
		b = append(b, '%', hex[c>>4], hex[c&0x0f])
	}
	return string(b)
}

type pair struct {
	key   string
	value string
}

func unreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

func merge(dst, src url.Values) {
	for k, vs := range src {
		dst[k] = append(dst[k], vs...)
	}
}

func randomNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
