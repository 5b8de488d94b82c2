package httpapi

import (
	"context"
	"net/http"

	"freightdesk/internal/domain/user"
	"freightdesk/internal/ports"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login is the only call made without a bearer token.
func (c *Client) Login(ctx context.Context, email string, password string) (ports.AuthToken, error) {
	return fetch[ports.AuthToken](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/auth/login-json",
		body:   loginBody{Email: email, Password: password},
		public: true,
	})
}

func (c *Client) CurrentUser(ctx context.Context) (user.User, error) {
	return fetch[user.User](ctx, c, get("/api/auth/me"))
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.send(ctx, request{method: http.MethodPost, path: "/api/auth/logout"})
	return err
}
