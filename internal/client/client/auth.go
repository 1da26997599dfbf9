package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

func (c *HTTPClient) Login(ctx context.Context, cred models.Credentials) (*models.LoginResult, error) {
	var res models.LoginResult
	err := c.do(ctx, request{method: http.MethodPost, segments: []string{"auth", "login"}, body: cred, public: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) VerifyTwoFactor(ctx context.Context, code models.EmailCode) (*models.LoginResult, error) {
	var res models.LoginResult
	err := c.do(ctx, request{method: http.MethodPost, segments: []string{"auth", "verify-2fa"}, body: code, public: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Signup(ctx context.Context, s models.Signup) error {
	return c.do(ctx, request{method: http.MethodPost, segments: []string{"auth", "signup"}, body: s, public: true}, nil)
}

func (c *HTTPClient) Verify(ctx context.Context, code models.EmailCode) error {
	return c.do(ctx, request{method: http.MethodPost, segments: []string{"auth", "verify"}, body: code, public: true}, nil)
}

func (c *HTTPClient) ResendVerification(ctx context.Context, req models.EmailOnly) error {
	return c.do(ctx, request{method: http.MethodPost, segments: []string{"auth", "resend-verification"}, body: req, public: true}, nil)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, req models.EmailOnly) error {
	return c.do(ctx, request{method: http.MethodPost, segments: []string{"auth", "forgot-password"}, body: req, public: true}, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, req models.PasswordReset) error {
	return c.do(ctx, request{method: http.MethodPost, segments: []string{"auth", "reset-password"}, body: req, public: true}, nil)
}
