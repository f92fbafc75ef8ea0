package api

import (
	"context"
	"fmt"
	"net/http"

	"perdecim-client/internal/model"
)

// Login authenticates with email and password. Token persistence is the
// auth store's job, not this binding's: the store decides what a 2FA
// challenge means for its state.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
	var res model.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &res); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &res, nil
}

// Register creates an account. The response carries a token pair like a
// successful login.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error) {
	var res model.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &res); err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	return &res, nil
}

// Verify2FA completes a pending two-factor login using the temp token the
// login response handed out.
func (c *Client) Verify2FA(ctx context.Context, req model.Verify2FARequest) (*model.AuthResult, error) {
	var res model.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/2fa/verify", req, &res); err != nil {
		return nil, fmt.Errorf("verifying 2fa: %w", err)
	}
	return &res, nil
}

// Me returns the currently authenticated user.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &user, nil
}
