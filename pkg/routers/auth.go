package routers

import (
	"context"

	"github.com/kipanshi/odesk-meter/pkg/client"
)

// Auth reads the identity behind the current token.
type Auth struct {
	r *client.Router
}

// NewAuth binds the auth group to c.
func NewAuth(c client.Caller) *Auth {
	return &Auth{r: client.NewRouter(c, AuthNamespace)}
}

// Info returns the authenticated user and their account details.
func (a *Auth) Info(ctx context.Context) (client.Result, error) {
	return a.r.Get(ctx, "info", nil)
}

// UserUID returns the uid of the authenticated user.
func (a *Auth) UserUID(ctx context.Context) (string, error) {
	info, err := a.Info(ctx)
	if err != nil {
		return "", err
	}
	uid := info.Get("auth_user.uid")
	if !uid.Exists() {
		return "", &client.Error{
			Kind:    client.KindMalformedResponse,
			URL:     a.r.URL("info"),
			Message: "auth_user.uid missing from response",
			Body:    info.Raw(),
		}
	}
	return uid.Text(), nil
}
