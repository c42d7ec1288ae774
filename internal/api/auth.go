package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/codewithmeedev/personal-finance-manager/internal/auth"
	applog "github.com/codewithmeedev/personal-finance-manager/internal/log"
)

// SignUp registers a new account and stores the issued token pair.
func (c *Client) SignUp(ctx context.Context, username, email, password string) error {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	var pair auth.TokenPair
	if err := c.do(ctx, http.MethodPost, "/users/signup", nil, body, &pair); err != nil {
		return err
	}
	return c.storePair(ctx, pair, applog.OpSignUp)
}

// SignIn exchanges credentials for a token pair and stores it.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var pair auth.TokenPair
	if err := c.do(ctx, http.MethodPost, "/users/signin", nil, body, &pair); err != nil {
		return err
	}
	return c.storePair(ctx, pair, applog.OpSignIn)
}

// SignOut drops the stored credentials.
func (c *Client) SignOut() error {
	if c.creds == nil {
		return nil
	}
	return c.creds.Clear()
}

// ForgotPassword asks the user service to mail a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/users/forgot-password", nil, body, nil)
}

// ResetPassword redeems a reset token and stores the fresh token pair.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{
		"token":        token,
		"new_password": newPassword,
	}
	var reply struct {
		Msg string `json:"msg"`
		auth.TokenPair
	}
	if err := c.do(ctx, http.MethodPost, "/users/reset-password", nil, body, &reply); err != nil {
		return err
	}
	return c.storePair(ctx, reply.TokenPair, applog.OpRefresh)
}

// refreshCredentials exchanges the stored refresh token for a new pair and
// persists it. Callers decide what a failure means; this never clears.
func (c *Client) refreshCredentials(ctx context.Context) (auth.TokenPair, error) {
	if c.creds == nil {
		return auth.TokenPair{}, errors.New("no credential provider")
	}
	current, err := c.creds.Get()
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("load credentials: %w", err)
	}
	if current.RefreshToken == "" {
		return auth.TokenPair{}, errors.New("no refresh token stored")
	}

	body := map[string]string{"refresh_token": current.RefreshToken}
	var pair auth.TokenPair
	if err := c.do(ctx, http.MethodPost, "/users/refresh", nil, body, &pair); err != nil {
		return auth.TokenPair{}, err
	}
	if err := c.creds.Set(pair); err != nil {
		return auth.TokenPair{}, fmt.Errorf("store refreshed credentials: %w", err)
	}
	c.logger.DebugContext(ctx, "credentials refreshed", applog.FieldOperation, applog.OpRefresh)
	return pair, nil
}

func (c *Client) storePair(ctx context.Context, pair auth.TokenPair, op string) error {
	if c.creds == nil {
		return errors.New("no credential provider configured")
	}
	if err := c.creds.Set(pair); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}
	c.logger.InfoContext(ctx, "credentials stored", applog.FieldOperation, op)
	return nil
}
