package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dmitrijs2005/gophjournal/internal/client/cache"
	"github.com/dmitrijs2005/gophjournal/internal/client/client"
	"github.com/dmitrijs2005/gophjournal/internal/client/config"
	"github.com/dmitrijs2005/gophjournal/internal/client/preferences"
	"github.com/dmitrijs2005/gophjournal/internal/client/repositories"
	"github.com/dmitrijs2005/gophjournal/internal/client/services"
	"github.com/dmitrijs2005/gophjournal/internal/filex"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/samber/do/v2"
)

// LogFileName is created inside the data directory; the REPL owns the
// terminal so logs go to a file.
const LogFileName = "client.log"

// storeHandle closes the local database on injector shutdown.
type storeHandle struct {
	*repositories.Repositories
}

func (h *storeHandle) Shutdown() error { return h.Close() }

type logSink struct {
	*os.File
}

func (s *logSink) Shutdown() error { return s.Close() }

// session tracks whether the server rejected the stored token.
type session struct {
	expired atomic.Bool
}

func newContainer(cfg *config.Config) *do.RootScope {
	i := do.New()

	do.ProvideValue(i, cfg)
	do.ProvideValue(i, &session{})
	do.Provide(i, provideLogSink)
	do.Provide(i, provideLogger)
	do.Provide(i, provideStore)
	do.Provide(i, provideAPI)
	do.Provide(i, func(do.Injector) (*cache.Cache, error) { return cache.New(), nil })
	do.Provide(i, providePreferences)

	do.Provide(i, provideAuthService)
	do.Provide(i, provideEntryService)
	do.Provide(i, func(i do.Injector) (services.FolderService, error) {
		return services.NewFolderService(do.MustInvoke[*client.HTTPClient](i), do.MustInvoke[*cache.Cache](i), do.MustInvoke[logging.Logger](i)), nil
	})
	do.Provide(i, func(i do.Injector) (services.TagService, error) {
		return services.NewTagService(do.MustInvoke[*client.HTTPClient](i), do.MustInvoke[*cache.Cache](i)), nil
	})
	do.Provide(i, func(i do.Injector) (services.ShareService, error) {
		return services.NewShareService(do.MustInvoke[*client.HTTPClient](i), do.MustInvoke[*cache.Cache](i)), nil
	})
	do.Provide(i, func(i do.Injector) (services.MediaService, error) {
		return services.NewMediaService(do.MustInvoke[*client.HTTPClient](i), do.MustInvoke[*cache.Cache](i)), nil
	})
	do.Provide(i, func(i do.Injector) (services.PromptService, error) {
		return services.NewPromptService(do.MustInvoke[*client.HTTPClient](i), do.MustInvoke[*cache.Cache](i)), nil
	})
	do.Provide(i, func(i do.Injector) (services.UserService, error) {
		return services.NewUserService(do.MustInvoke[*client.HTTPClient](i), do.MustInvoke[*cache.Cache](i)), nil
	})

	return i
}

func provideLogSink(i do.Injector) (*logSink, error) {
	cfg := do.MustInvoke[*config.Config](i)
	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &logSink{File: f}, nil
}

func provideLogger(i do.Injector) (logging.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sink := do.MustInvoke[*logSink](i)
	return logging.New(cfg.LogBackend, cfg.LogLevel, sink)
}

func provideStore(i do.Injector) (*storeHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[logging.Logger](i)

	repos, err := repositories.Open(context.Background(), cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	if n, err := repos.Metadata.PurgeExpired(context.Background()); err != nil {
		log.Warn(context.Background(), "purge expired metadata", "error", err)
	} else if n > 0 {
		log.Debug(context.Background(), "purged expired metadata", "rows", n)
	}
	return &storeHandle{Repositories: repos}, nil
}

func provideAPI(i do.Injector) (*client.HTTPClient, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[logging.Logger](i)
	store := do.MustInvoke[*storeHandle](i)
	sess := do.MustInvoke[*session](i)

	return client.NewHTTPClient(cfg.APIBaseURL, client.NewMetadataTokenStore(store.Metadata),
		client.WithTimeout(cfg.RequestTimeout),
		client.WithRateLimit(cfg.RequestsPerSecond),
		client.WithLogger(log.With("component", "http")),
		client.OnUnauthorized(func() { sess.expired.Store(true) }),
	)
}

func providePreferences(i do.Injector) (*preferences.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	store := do.MustInvoke[*storeHandle](i)
	return preferences.NewStore(store.Metadata,
		preferences.WithTTL(cfg.PreferenceTTL),
		preferences.WithLogger(do.MustInvoke[logging.Logger](i)),
	), nil
}

func provideAuthService(i do.Injector) (services.AuthService, error) {
	api := do.MustInvoke[*client.HTTPClient](i)
	store := do.MustInvoke[*storeHandle](i)
	return services.NewAuthService(api, api.Tokens(), store.DB, do.MustInvoke[*cache.Cache](i), do.MustInvoke[logging.Logger](i)), nil
}

func provideEntryService(i do.Injector) (services.EntryService, error) {
	return services.NewEntryService(do.MustInvoke[*client.HTTPClient](i), do.MustInvoke[*cache.Cache](i), do.MustInvoke[logging.Logger](i)), nil
}
