package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophjournal/internal/client/config"
	"github.com/dmitrijs2005/gophjournal/internal/client/preferences"
	"github.com/dmitrijs2005/gophjournal/internal/client/services"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/samber/do/v2"
)

// App is the interactive journal client.
type App struct {
	config *config.Config
	log    logging.Logger

	authService   services.AuthService
	entryService  services.EntryService
	folderService services.FolderService
	tagService    services.TagService
	shareService  services.ShareService
	mediaService  services.MediaService
	promptService services.PromptService
	userService   services.UserService
	prefs         autosavePrefs

	session  *session
	loggedIn bool
	email    string
	userName string

	reader *bufio.Reader
	out    io.Writer

	injector *do.RootScope
}

func NewApp(c *config.Config) (*App, error) {
	i := newContainer(c)

	log, err := do.Invoke[logging.Logger](i)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if _, err := do.Invoke[*storeHandle](i); err != nil {
		_ = i.Shutdown()
		return nil, err
	}

	return &App{
		config:        c,
		log:           log,
		authService:   do.MustInvoke[services.AuthService](i),
		entryService:  do.MustInvoke[services.EntryService](i),
		folderService: do.MustInvoke[services.FolderService](i),
		tagService:    do.MustInvoke[services.TagService](i),
		shareService:  do.MustInvoke[services.ShareService](i),
		mediaService:  do.MustInvoke[services.MediaService](i),
		promptService: do.MustInvoke[services.PromptService](i),
		userService:   do.MustInvoke[services.UserService](i),
		prefs:         do.MustInvoke[*preferences.Store](i),
		session:       do.MustInvoke[*session](i),
		reader:        bufio.NewReader(os.Stdin),
		out:           os.Stdout,
		injector:      i,
	}, nil
}

// Run restores a stored session, then blocks in the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.shutdown()

	if ok, err := a.authService.IsLoggedIn(ctx); err != nil {
		a.log.Warn(ctx, "read stored session", "error", err)
	} else if ok {
		a.loggedIn = true
		a.refreshUser(ctx)
	}

	a.Root(ctx)
}

func (a *App) shutdown() {
	if a.injector == nil {
		return
	}
	if err := a.injector.Shutdown(); err != nil {
		fmt.Fprintln(os.Stderr, "shutdown:", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

// checkSession signs the user out locally once the server rejected the
// token.
func (a *App) checkSession() {
	if a.session == nil || !a.session.expired.Swap(false) {
		return
	}
	if a.loggedIn {
		a.loggedIn = false
		a.userName = ""
		a.printf("Your session has expired, please log in again.\n")
	}
}

func (a *App) refreshUser(ctx context.Context) {
	u, err := a.userService.Me(ctx)
	if err != nil {
		a.log.Debug(ctx, "load profile", "error", err)
		return
	}
	a.userName = u.Username
	a.email = u.Email
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail reports a command error to the user and the log.
func (a *App) fail(ctx context.Context, what string, err error) error {
	a.log.Error(ctx, what, "error", err)
	a.printf("Error: %s: %s\n", what, describe(err))
	return err
}
