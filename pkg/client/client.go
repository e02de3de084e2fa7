package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/kipanshi/odesk-meter/pkg/oauth1"
	"go.uber.org/zap"
)

// Version of this library, reported in the User-Agent header.
const Version = "0.5.0"

// formatSuffix is appended to every resource URL outside the GDS tree.
const formatSuffix = ".json"

// Request is one call to the service. It is built fresh per call.
type Request struct {
	Method string
	URL    string
	Params Params
	Header http.Header
}

// Client issues signed requests to the service.
//
// A Client is safe for concurrent use by multiple goroutines. It maintains
// an internal HTTP connection pool, shared across requests and across the
// copies returned by WithToken.
type Client struct {
	http   *resty.Client
	signer *oauth1.Signer
	token  *oauth1.Token
	opts   *Options
	logger *zap.Logger
}

// New creates a client for the given consumer credentials.
func New(creds oauth1.Credentials, opts ...Option) (*Client, error) {
	if creds.ConsumerKey == "" {
		return nil, errors.New("consumer key cannot be empty")
	}
	if creds.ConsumerSecret == "" {
		return nil, errors.New("consumer secret cannot be empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	// Validate options
	if options.timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	u, err := url.Parse(options.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("baseURL must be an absolute URL")
	}
	options.baseURL = strings.TrimRight(options.baseURL, "/")
	if options.logger == nil {
		options.logger = zap.NewNop()
	}

	var hc *resty.Client
	if options.httpClient != nil {
		hc = resty.NewWithClient(options.httpClient)
	} else {
		hc = resty.New()
	}
	hc.SetTimeout(options.timeout).
		SetHeader("User-Agent", options.userAgent).
		SetLogger(options.logger.Sugar())

	return &Client{
		http:   hc,
		signer: oauth1.NewSigner(creds, options.signerOpts...),
		token:  options.token,
		opts:   options,
		logger: options.logger.Named("odesk"),
	}, nil
}

// BaseURL returns the service host the client talks to.
func (c *Client) BaseURL() string {
	return c.opts.baseURL
}

// Token returns the session token, or nil for an anonymous client.
func (c *Client) Token() *oauth1.Token {
	if c.token == nil {
		return nil
	}
	t := *c.token
	return &t
}

// Credentials returns the consumer credentials.
func (c *Client) Credentials() oauth1.Credentials {
	return c.signer.Credentials()
}

// WithToken returns a copy of c that signs with tok. The copy shares the
// connection pool. Passing nil yields an anonymous client.
func (c *Client) WithToken(tok *oauth1.Token) *Client {
	cp := *c
	cp.token = nil
	if tok != nil {
		t := *tok
		cp.token = &t
	}
	return &cp
}

// Get issues a signed GET. rawURL may be absolute or relative to BaseURL.
func (c *Client) Get(ctx context.Context, rawURL string, params Params) (Result, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: rawURL, Params: params})
}

// Post issues a signed POST with params in the form body.
func (c *Client) Post(ctx context.Context, rawURL string, params Params) (Result, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, URL: rawURL, Params: params})
}

// Put issues a signed PUT with params as a JSON body.
func (c *Client) Put(ctx context.Context, rawURL string, params Params) (Result, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, URL: rawURL, Params: params})
}

// Delete issues a signed DELETE with params as a JSON body.
func (c *Client) Delete(ctx context.Context, rawURL string, params Params) (Result, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, URL: rawURL, Params: params})
}

// Do signs and sends req and decodes the response. The format suffix is
// added to the URL unless it targets the GDS tree.
func (c *Client) Do(ctx context.Context, req *Request) (Result, error) {
	call := *req
	call.URL = c.resourceURL(req.URL)

	c.logger.Debug("preparing call",
		zap.String("method", call.Method),
		zap.String("url", call.URL),
		zap.Any("params", call.Params),
	)

	resp, err := c.execute(ctx, &call)
	if err != nil {
		c.logger.Debug("call failed", zap.String("url", call.URL), zap.Error(err))
		return Result{}, err
	}

	base, _, _ := strings.Cut(call.URL, "?")
	result, err := decode(base, resp.StatusCode(), resp.Header(), resp.Body())
	if err != nil {
		c.logger.Debug("call failed",
			zap.String("url", base),
			zap.Int("status", resp.StatusCode()),
			zap.Error(err),
		)
		return Result{}, err
	}

	c.logger.Debug("response", zap.ByteString("body", result.Raw()))
	return result, nil
}

// resourceURL resolves rawURL against the base URL and appends the format
// suffix where the service expects one.
func (c *Client) resourceURL(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = c.opts.baseURL + "/" + strings.TrimLeft(rawURL, "/")
	}

	path, query, hasQuery := strings.Cut(rawURL, "?")
	// A path already ending in .json is left alone, never doubled.
	if strings.Contains(path, "/"+RootGDS+"/") || strings.HasSuffix(path, formatSuffix) {
		return rawURL
	}
	path += formatSuffix
	if hasQuery {
		return path + "?" + query
	}
	return path
}
