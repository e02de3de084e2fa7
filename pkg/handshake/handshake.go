// Package handshake runs the three-legged OAuth 1.0a authorization that
// turns a user's approval into an access token.
//
// A Flow is used once per authorization:
//
//	f := handshake.New(creds)
//	u, err := f.AuthorizeURL()    // fetches a request token
//	// the user opens u and copies the verifier shown by the service
//	tok, err := f.AccessToken(verifier)
package handshake

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/garyburd/go-oauth/oauth"
	"github.com/kipanshi/odesk-meter/pkg/client"
	"github.com/kipanshi/odesk-meter/pkg/oauth1"
	"go.uber.org/zap"
)

// Endpoint paths, relative to the base URL.
const (
	RequestTokenPath = "/api/auth/v1/oauth/token/request"
	AuthorizePath    = "/services/api/auth"
	AccessTokenPath  = "/api/auth/v1/oauth/token/access"
)

// OutOfBand asks the service to show the verifier to the user instead of
// redirecting.
const OutOfBand = "oob"

// ErrNoRequestToken is returned by AccessToken before a request token was
// obtained.
var ErrNoRequestToken = errors.New("no request token, call AuthorizeURL first")

// Flow holds the state of one authorization. It is safe for concurrent use,
// though the steps are meant to run in order.
type Flow struct {
	oc       oauth.Client
	http     *http.Client
	callback string
	logger   *zap.Logger

	mu   sync.Mutex
	temp *oauth.Credentials
}

type settings struct {
	baseURL  string
	http     *http.Client
	callback string
	logger   *zap.Logger
}

// Option configures a Flow.
type Option func(*settings)

// WithBaseURL sets the service root the endpoint paths are relative to.
func WithBaseURL(u string) Option {
	return func(s *settings) {
		s.baseURL = u
	}
}

// WithHTTPClient sets the client the handshake requests go through.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) {
		s.http = hc
	}
}

// WithCallback sets the URL the service redirects to after approval.
func WithCallback(u string) Option {
	return func(s *settings) {
		s.callback = u
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// New prepares a flow for the application identified by creds.
func New(creds oauth1.Credentials, opts ...Option) *Flow {
	s := settings{
		baseURL:  client.DefaultBaseURL,
		http:     http.DefaultClient,
		callback: OutOfBand,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	base := strings.TrimRight(s.baseURL, "/")

	return &Flow{
		oc: oauth.Client{
			Credentials: oauth.Credentials{
				Token:  creds.ConsumerKey,
				Secret: creds.ConsumerSecret,
			},
			TemporaryCredentialRequestURI: base + RequestTokenPath,
			ResourceOwnerAuthorizationURI: base + AuthorizePath,
			TokenRequestURI:               base + AccessTokenPath,
		},
		http:     s.http,
		callback: s.callback,
		logger:   s.logger.Named("handshake"),
	}
}

// RequestToken fetches a fresh request token and keeps it for the
// following steps.
func (f *Flow) RequestToken() (*oauth1.Token, error) {
	temp, err := f.oc.RequestTemporaryCredentials(f.http, f.callback, nil)
	if err != nil {
		return nil, fmt.Errorf("request token: %w", err)
	}
	f.logger.Debug("obtained request token", zap.String("token", temp.Token))

	f.mu.Lock()
	f.temp = temp
	f.mu.Unlock()
	return &oauth1.Token{Key: temp.Token, Secret: temp.Secret}, nil
}

// AuthorizeURL returns the page where the user approves the application,
// fetching a request token first if the flow has none.
func (f *Flow) AuthorizeURL() (string, error) {
	temp := f.requestCredentials()
	if temp == nil {
		if _, err := f.RequestToken(); err != nil {
			return "", err
		}
		temp = f.requestCredentials()
	}
	return f.oc.AuthorizationURL(temp, nil), nil
}

// AccessToken exchanges the request token and the verifier the user copied
// from the authorization page for an access token.
func (f *Flow) AccessToken(verifier string) (*oauth1.Token, error) {
	if strings.TrimSpace(verifier) == "" {
		return nil, client.NewValidationError("verifier cannot be empty")
	}
	temp := f.requestCredentials()
	if temp == nil {
		return nil, ErrNoRequestToken
	}

	tok, _, err := f.oc.RequestToken(f.http, temp, strings.TrimSpace(verifier))
	if err != nil {
		return nil, fmt.Errorf("access token: %w", err)
	}
	f.logger.Debug("obtained access token", zap.String("token", tok.Token))
	return &oauth1.Token{Key: tok.Token, Secret: tok.Secret}, nil
}

func (f *Flow) requestCredentials() *oauth.Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.temp
}
