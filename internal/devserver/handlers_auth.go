package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/devserver/auth"
	"github.com/dmitrijs2005/gophjournal/internal/devserver/store"
)

var errInvalidCredentials = &requestError{status: http.StatusUnauthorized, msg: "invalid email or password"}

// sendCode issues and mails a fresh code, replacing any pending one.
func (s *Server) sendCode(ctx context.Context, p store.Purpose, email string) error {
	code, err := auth.GenerateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	s.store.SetCode(p, email, code)
	return s.mailer.Send(ctx, email, p, code)
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, u *store.User) {
	token, err := auth.GenerateToken(u.ID, s.secret, s.cfg.TokenTTL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResult{Token: token})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req models.Signup
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	password := []byte(req.Password)
	defer common.WipeByteArray(password)
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.store.CreateUser(req.Username, req.Email, hash, s.cfg.RequireTwoFactor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sendCode(r.Context(), store.PurposeVerify, u.Email); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info(r.Context(), "user signed up", "user_id", u.ID.String())
	writeJSON(w, http.StatusCreated, models.Message{Message: "verification code sent"})
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	var req models.EmailCode
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.store.UseCode(store.PurposeVerify, req.Email, req.Code) {
		s.writeError(w, r, badRequest("invalid or expired code"))
		return
	}
	if err := s.store.MarkVerified(req.Email); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, "email verified")
}

func (s *Server) resendVerification(w http.ResponseWriter, r *http.Request) {
	var req models.EmailOnly
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	// The reply does not reveal whether the address is registered.
	if u, err := s.store.UserByEmail(req.Email); err == nil && !u.Verified {
		if err := s.sendCode(r.Context(), store.PurposeVerify, u.Email); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeMessage(w, "if the account exists a code was sent")
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.store.UserByEmail(req.Email)
	if errors.Is(err, common.ErrNotFound) {
		s.writeError(w, r, errInvalidCredentials)
		return
	} else if err != nil {
		s.writeError(w, r, err)
		return
	}

	password := []byte(req.Password)
	defer common.WipeByteArray(password)
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		s.writeError(w, r, errInvalidCredentials)
		return
	}
	if !u.Verified {
		s.writeError(w, r, forbidden("email not verified"))
		return
	}

	if u.TwoFactor {
		if err := s.sendCode(r.Context(), store.PurposeTwoFactor, u.Email); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.LoginResult{TwoFactorRequired: true})
		return
	}
	s.issueToken(w, r, u)
}

func (s *Server) verifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req models.EmailCode
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.store.UseCode(store.PurposeTwoFactor, req.Email, req.Code) {
		s.writeError(w, r, &requestError{status: http.StatusUnauthorized, msg: "invalid or expired code"})
		return
	}
	u, err := s.store.UserByEmail(req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.issueToken(w, r, u)
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.EmailOnly
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if u, err := s.store.UserByEmail(req.Email); err == nil {
		if err := s.sendCode(r.Context(), store.PurposeReset, u.Email); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeMessage(w, "if the account exists a code was sent")
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordReset
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.store.UseCode(store.PurposeReset, req.Email, req.Code) {
		s.writeError(w, r, badRequest("invalid or expired code"))
		return
	}

	password := []byte(req.NewPassword)
	defer common.WipeByteArray(password)
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SetPasswordHash(req.Email, hash); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, "password updated")
}
