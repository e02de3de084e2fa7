package client

import (
	"net/http"
	"time"

	"github.com/kipanshi/odesk-meter/pkg/oauth1"
	"go.uber.org/zap"
)

// DefaultBaseURL is the production service host.
const DefaultBaseURL = "https://www.odesk.com"

// Options configures the client behavior.
type Options struct {
	baseURL    string
	token      *oauth1.Token
	timeout    time.Duration
	logger     *zap.Logger
	httpClient *http.Client
	userAgent  string
	signerOpts []oauth1.SignerOption
}

func defaultOptions() *Options {
	return &Options{
		baseURL:   DefaultBaseURL,
		timeout:   30 * time.Second,
		logger:    zap.NewNop(),
		userAgent: "odesk-meter-go/" + Version,
	}
}

// Option configures the client.
type Option func(*Options)

// WithBaseURL overrides the service host, e.g. for a staging environment.
func WithBaseURL(u string) Option {
	return func(o *Options) {
		o.baseURL = u
	}
}

// WithToken signs requests on behalf of a user who completed the
// authorization handshake. Without it requests are signed anonymously.
func WithToken(key, secret string) Option {
	return func(o *Options) {
		o.token = &oauth1.Token{Key: key, Secret: secret}
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.timeout = d
	}
}

// WithLogger sets the sink for debug output. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.logger = l
	}
}

// WithHTTPClient supplies the underlying *http.Client and with it the
// connection pool. Its Timeout is overridden by WithTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		o.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *Options) {
		o.userAgent = ua
	}
}

// WithSignerOptions passes options to the request signer, typically a fixed
// nonce and clock in tests.
func WithSignerOptions(opts ...oauth1.SignerOption) Option {
	return func(o *Options) {
		o.signerOpts = append(o.signerOpts, opts...)
	}
}
