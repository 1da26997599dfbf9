// Package devserver is an in-memory implementation of the journal API. It
// backs the integration tests and the devserver command; nothing is
// persisted across restarts.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/devserver/config"
	"github.com/dmitrijs2005/gophjournal/internal/devserver/search"
	"github.com/dmitrijs2005/gophjournal/internal/devserver/store"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/validation"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg      *config.Config
	store    *store.Store
	index    *search.Index
	log      logging.Logger
	validate *validation.Validator
	mailer   Mailer
	secret   []byte
	now      func() time.Time
	handler  http.Handler
}

type Option func(*Server)

// WithMailer replaces the logging mailer.
func WithMailer(m Mailer) Option {
	return func(s *Server) { s.mailer = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func New(cfg *config.Config, log logging.Logger, opts ...Option) (*Server, error) {
	if log == nil {
		log = logging.Nop()
	}
	s := &Server{
		cfg:      cfg,
		log:      log.With("module", "devserver"),
		validate: validation.New(),
		secret:   []byte(cfg.SecretKey),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.mailer == nil {
		s.mailer = &logMailer{log: s.log}
	}

	idx, err := search.New()
	if err != nil {
		return nil, err
	}
	s.index = idx
	s.store = store.New(cfg.IDBase, store.WithClock(s.now))
	s.handler = s.routes()
	return s, nil
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) Close() error {
	return s.index.Close()
}

// Run serves on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on l until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "Starting HTTP server", "address", l.Addr().String(), "base_path", s.cfg.BasePath)
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
