package devserver

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophjournal/internal/devserver/config"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// App runs the dev server as a process: logger setup, signal handling and
// shutdown.
type App struct {
	config *config.Config
	logger logging.Logger
	server *Server
}

func NewApp(c *config.Config, logOut io.Writer) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, logOut)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	srv, err := New(c, logger)
	if err != nil {
		return nil, fmt.Errorf("server init error: %w", err)
	}
	return &App{config: c, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run blocks until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := app.initSignalHandler(ctx)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "id_base", app.config.IDBase)
	defer func() {
		if err := app.server.Close(); err != nil {
			app.logger.Error(ctx, "close search index", "error", err)
		}
	}()

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}
	app.logger.Info(ctx, "Stopped")
	return nil
}
