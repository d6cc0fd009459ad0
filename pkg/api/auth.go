package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"video-portal/pkg/models"
)

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

func (c *Client) Signup(ctx context.Context, username, email, password string) (string, error) {
	return c.authenticate(ctx, "signup", "/api/auth/signup", "Signup failed", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "login", "/api/auth/login", "Login failed", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Logout forgets the stored token. The service is not told.
func (c *Client) Logout() error {
	return errors.Wrap(c.tokens.ClearToken(), "clear token")
}

// authenticate stores the token only when the service returned one.
func (c *Client) authenticate(ctx context.Context, op, path, fallback string, creds map[string]string) (string, error) {
	body, err := jsonBody(creds)
	if err != nil {
		return "", err
	}
	var resp authResponse
	err = c.do(ctx, call{
		op:          op,
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: "application/json",
		fallback:    fallback,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &RequestError{Op: op, StatusCode: http.StatusOK, Message: fallback}
	}
	if err := c.tokens.SetToken(resp.Token); err != nil {
		return "", errors.Wrap(err, "persist token")
	}
	return resp.Token, nil
}
