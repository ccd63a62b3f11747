package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/career-guide/internal/types"
	schemafiles "github.com/jonathan/career-guide/schemas"
)

var errMissingUser = errors.New("response did not include a user")

// Register creates an account and starts a session for it.
func (c *Client) Register(ctx context.Context, req types.RegisterRequest) (*types.User, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

// Login authenticates with email and password. The session cookie is kept by the client.
func (c *Client) Login(ctx context.Context, req types.LoginRequest) (*types.User, error) {
	return c.authenticate(ctx, "/auth/login", req)
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	var resp types.MessageResponse
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/logout", out: &resp})
}

// CurrentUser returns the user bound to the current session cookie.
func (c *Client) CurrentUser(ctx context.Context) (*types.User, error) {
	var resp types.AuthResponse
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/auth/me",
		out:    &resp,
		schema: schemafiles.AuthResponse,
	})
	if err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &RequestFailedError{Method: http.MethodGet, Path: "/auth/me", Status: http.StatusOK, Cause: errMissingUser}
	}
	return resp.User, nil
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*types.User, error) {
	var resp types.AuthResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   path,
		body:   body,
		out:    &resp,
		schema: schemafiles.AuthResponse,
	})
	if err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &RequestFailedError{Method: http.MethodPost, Path: path, Cause: errMissingUser}
	}
	return resp.User, nil
}
