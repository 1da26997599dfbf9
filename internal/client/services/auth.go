// Package services contains the application services of the journal client.
// They validate input, call the remote API, keep the query cache coherent
// and persist the little local state the client owns.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/cache"
	"github.com/dmitrijs2005/gophjournal/internal/client/client"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/validation"
)

const (
	// resetCodeKey holds the password-reset code between the two steps of
	// the reset flow.
	resetCodeKey = "reset_code"
	resetCodeTTL = time.Hour
)

// LoginOutcome tells the caller whether the session is ready or a second
// factor is still needed.
type LoginOutcome int

const (
	LoggedIn LoginOutcome = iota
	NeedsTwoFactor
)

// AuthService defines the account flows of the client.
//
// Contract:
//   - Login: exchange credentials for a session; may ask for a second factor.
//   - VerifyTwoFactor: finish a login that needed a second factor.
//   - Signup, Verify, ResendVerification: account creation and email check.
//   - ForgotPassword, RememberResetCode, ResetPassword: password reset; the
//     mailed code is kept locally until it has been used.
//   - Logout: drop the session and all cached data.
type AuthService interface {
	Login(ctx context.Context, email, password string) (LoginOutcome, error)
	VerifyTwoFactor(ctx context.Context, email, code string) error
	Signup(ctx context.Context, s models.Signup) error
	Verify(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	RememberResetCode(ctx context.Context, code string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
	Logout(ctx context.Context) error
	IsLoggedIn(ctx context.Context) (bool, error)
}

type authService struct {
	api      client.AuthAPI
	tokens   client.TokenStore
	db       *sql.DB
	cache    *cache.Cache
	validate *validation.Validator
	log      logging.Logger
	now      func() time.Time
}

// NewAuthService constructs an AuthService. db is the local store holding
// the reset code; tokens usually lives in the same store.
func NewAuthService(api client.AuthAPI, tokens client.TokenStore, db *sql.DB, c *cache.Cache, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{
		api:      api,
		tokens:   tokens,
		db:       db,
		cache:    c,
		validate: validation.New(),
		log:      log.With("component", "auth"),
		now:      time.Now,
	}
}

func (a *authService) metadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db, metadata.WithClock(a.now))
}

func (a *authService) Login(ctx context.Context, email, password string) (LoginOutcome, error) {
	cred := models.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := a.validate.Validate(cred); err != nil {
		return LoggedIn, err
	}

	res, err := a.api.Login(ctx, cred)
	if err != nil {
		return LoggedIn, fmt.Errorf("login error: %w", err)
	}
	if res.TwoFactorRequired {
		a.log.Info(ctx, "second factor required")
		return NeedsTwoFactor, nil
	}
	return LoggedIn, a.startSession(ctx, res)
}

func (a *authService) VerifyTwoFactor(ctx context.Context, email, code string) error {
	req := models.EmailCode{Email: strings.TrimSpace(email), Code: strings.TrimSpace(code)}
	if err := a.validate.Validate(req); err != nil {
		return err
	}

	res, err := a.api.VerifyTwoFactor(ctx, req)
	if err != nil {
		return fmt.Errorf("2fa error: %w", err)
	}
	return a.startSession(ctx, res)
}

func (a *authService) startSession(ctx context.Context, res *models.LoginResult) error {
	if res.Token == "" {
		return fmt.Errorf("login error: %w: empty session token", common.ErrRejected)
	}
	if err := a.tokens.SetToken(ctx, res.Token); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	a.cache.Clear()
	a.log.Info(ctx, "logged in")
	return nil
}

func (a *authService) Signup(ctx context.Context, s models.Signup) error {
	s.Email = strings.TrimSpace(s.Email)
	if err := a.validate.Validate(s); err != nil {
		return err
	}
	if err := a.api.Signup(ctx, s); err != nil {
		return fmt.Errorf("signup error: %w", err)
	}
	return nil
}

func (a *authService) Verify(ctx context.Context, email, code string) error {
	req := models.EmailCode{Email: strings.TrimSpace(email), Code: strings.TrimSpace(code)}
	if err := a.validate.Validate(req); err != nil {
		return err
	}
	if err := a.api.Verify(ctx, req); err != nil {
		return fmt.Errorf("verification error: %w", err)
	}
	return nil
}

func (a *authService) ResendVerification(ctx context.Context, email string) error {
	req := models.EmailOnly{Email: strings.TrimSpace(email)}
	if err := a.validate.Validate(req); err != nil {
		return err
	}
	return a.api.ResendVerification(ctx, req)
}

func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	req := models.EmailOnly{Email: strings.TrimSpace(email)}
	if err := a.validate.Validate(req); err != nil {
		return err
	}
	return a.api.ForgotPassword(ctx, req)
}

// RememberResetCode stores the mailed reset code until ResetPassword uses it
// or it expires.
func (a *authService) RememberResetCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if err := a.validate.Var("code", code, "required,alphanum,len=6"); err != nil {
		return err
	}
	return a.metadataRepo().SetWithExpiry(ctx, resetCodeKey, []byte(code), a.now().Add(resetCodeTTL))
}

// ResetPassword completes the reset with the remembered code. The code is
// cleared once the server accepted it.
func (a *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	repo := a.metadataRepo()
	code, err := repo.Get(ctx, resetCodeKey)
	if err != nil {
		return fmt.Errorf("read reset code: %w", err)
	}
	if len(code) == 0 {
		return common.NewValidationError("code", "is required")
	}

	req := models.PasswordReset{Email: strings.TrimSpace(email), Code: string(code), NewPassword: newPassword}
	if err := a.validate.Validate(req); err != nil {
		return err
	}
	if err := a.api.ResetPassword(ctx, req); err != nil {
		return fmt.Errorf("reset error: %w", err)
	}
	return repo.Delete(ctx, resetCodeKey)
}

// Logout removes the session token and the reset code in one transaction
// and drops every cached view.
func (a *authService) Logout(ctx context.Context) error {
	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, client.SessionTokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, resetCodeKey)
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := a.tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.cache.Clear()
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) IsLoggedIn(ctx context.Context) (bool, error) {
	tok, err := a.tokens.Token(ctx)
	if err != nil {
		return false, err
	}
	return tok != "", nil
}
