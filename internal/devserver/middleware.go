package devserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/devserver/auth"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const userIDKey ctxKey = "userID"

func userIDFrom(ctx context.Context) (ids.ID, bool) {
	id, ok := ctx.Value(userIDKey).(ids.ID)
	return id, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(common.AuthorizationHeaderName)
	if !strings.HasPrefix(h, common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(h, common.BearerPrefix)
	return token, token != ""
}

func (s *Server) authenticate(r *http.Request) (ids.ID, error) {
	token, ok := bearerToken(r)
	if !ok {
		return 0, errors.New("missing token")
	}
	uid, err := auth.GetUserIDFromToken(token, s.secret)
	if err != nil {
		return 0, err
	}
	// Tokens of users lost on restart are refused.
	if _, err := s.store.UserByID(uid); err != nil {
		return 0, common.ErrInvalidToken
	}
	return uid, nil
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, err := s.authenticate(r)
		if err != nil {
			s.log.Debug(r.Context(), "auth rejected", "path", r.URL.Path, "error", err)
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, uid)))
	})
}

// optionalAuth attaches the user when a valid token is present and lets
// anonymous requests through.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, err := s.authenticate(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, uid))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(logging.WithRequestID(r.Context(), chimw.GetReqID(r.Context())))
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.EscapedPath(),
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(started),
		)
	})
}

// pathParam returns the decoded URL parameter. chi matches on the escaped
// path when one is present, so escaped slashes stay inside one segment.
func pathParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

func idParam(r *http.Request, name string) (ids.ID, error) {
	v, err := pathParam(r, name)
	if err != nil {
		return 0, badRequest("%s: %v", name, err)
	}
	id, err := ids.Parse(v)
	if err != nil {
		return 0, badRequest("%s: %v", name, err)
	}
	return id, nil
}
