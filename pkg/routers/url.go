package routers

import (
	"context"

	"github.com/kipanshi/odesk-meter/pkg/client"
)

// URL shortens and expands links through the service's URL shortener.
type URL struct {
	r *client.Router
}

// NewURL binds the URL shortener group to c.
func NewURL(c client.Caller) *URL {
	return &URL{r: client.NewRouter(c, URLNamespace)}
}

// Shorten returns a short link for longURL.
func (u *URL) Shorten(ctx context.Context, longURL string) (string, error) {
	return u.lookup(ctx, "shorten", longURL, "short_url")
}

// Expand returns the link shortURL points to.
func (u *URL) Expand(ctx context.Context, shortURL string) (string, error) {
	return u.lookup(ctx, "expand", shortURL, "long_url")
}

func (u *URL) lookup(ctx context.Context, path, target, field string) (string, error) {
	if target == "" {
		return "", client.NewValidationError("url is required")
	}
	res, err := u.r.Get(ctx, path, client.Params{"url": target})
	if err != nil {
		return "", err
	}
	return res.Unwrap(field).Text(), nil
}
