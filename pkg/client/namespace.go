package client

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// URL roots of the two resource trees.
const (
	RootAPI = "api"
	RootGDS = "gds"
)

// Namespace describes a resource group: the tree it lives in, its prefix and
// its protocol version. Namespaces are plain values and never change after
// construction.
type Namespace struct {
	Root    string
	Prefix  string
	Version int
}

// URL composes {base}/{root}/{prefix}/v{version}/{path}.
func (n Namespace) URL(base, path string, version int) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteByte('/')
	b.WriteString(n.Root)
	b.WriteByte('/')
	if p := strings.Trim(n.Prefix, "/"); p != "" {
		b.WriteString(p)
		b.WriteByte('/')
	}
	b.WriteByte('v')
	b.WriteString(strconv.Itoa(version))
	b.WriteByte('/')
	b.WriteString(strings.TrimLeft(path, "/"))
	return b.String()
}

// Caller is the part of *Client a router needs.
type Caller interface {
	BaseURL() string
	Do(ctx context.Context, req *Request) (Result, error)
}

type callOptions struct {
	version int
}

// CallOption adjusts a single routed call.
type CallOption func(*callOptions)

// AtVersion sends one call to another protocol version of the namespace.
func AtVersion(v int) CallOption {
	return func(o *callOptions) {
		o.version = v
	}
}

func (n Namespace) resolve(base, path string, opts []CallOption) string {
	o := callOptions{version: n.Version}
	for _, opt := range opts {
		opt(&o)
	}
	return n.URL(base, path, o.version)
}

// Router sends calls of any verb to one namespace.
type Router struct {
	caller Caller
	ns     Namespace
}

// NewRouter binds ns to a caller.
func NewRouter(caller Caller, ns Namespace) *Router {
	return &Router{caller: caller, ns: ns}
}

// Namespace returns the router's namespace.
func (r *Router) Namespace() Namespace {
	return r.ns
}

// URL returns the absolute URL for path, before the format suffix.
func (r *Router) URL(path string, opts ...CallOption) string {
	return r.ns.resolve(r.caller.BaseURL(), path, opts)
}

// Get reads path within the namespace.
func (r *Router) Get(ctx context.Context, path string, params Params, opts ...CallOption) (Result, error) {
	return r.call(ctx, http.MethodGet, path, params, opts)
}

// Post creates or updates path with a form-encoded body.
func (r *Router) Post(ctx context.Context, path string, params Params, opts ...CallOption) (Result, error) {
	return r.call(ctx, http.MethodPost, path, params, opts)
}

// Put updates path with a JSON body.
func (r *Router) Put(ctx context.Context, path string, params Params, opts ...CallOption) (Result, error) {
	return r.call(ctx, http.MethodPut, path, params, opts)
}

// Delete removes path, sending params as a JSON body.
func (r *Router) Delete(ctx context.Context, path string, params Params, opts ...CallOption) (Result, error) {
	return r.call(ctx, http.MethodDelete, path, params, opts)
}

func (r *Router) call(ctx context.Context, method, path string, params Params, opts []CallOption) (Result, error) {
	return r.caller.Do(ctx, &Request{
		Method: method,
		URL:    r.URL(path, opts...),
		Params: params,
	})
}

// ReadOnlyRouter only issues GET requests. It is used for resource groups
// that cannot be written to, so a write is a compile error rather than a
// silent no-op.
type ReadOnlyRouter struct {
	caller Caller
	ns     Namespace
}

// NewReadOnlyRouter binds ns to a caller for reads only.
func NewReadOnlyRouter(caller Caller, ns Namespace) *ReadOnlyRouter {
	return &ReadOnlyRouter{caller: caller, ns: ns}
}

// Namespace returns the router's namespace.
func (r *ReadOnlyRouter) Namespace() Namespace {
	return r.ns
}

// URL returns the absolute URL for path.
func (r *ReadOnlyRouter) URL(path string, opts ...CallOption) string {
	return r.ns.resolve(r.caller.BaseURL(), path, opts)
}

// Get reads path within the namespace.
func (r *ReadOnlyRouter) Get(ctx context.Context, path string, params Params, opts ...CallOption) (Result, error) {
	return r.caller.Do(ctx, &Request{
		Method: http.MethodGet,
		URL:    r.URL(path, opts...),
		Params: params,
	})
}
