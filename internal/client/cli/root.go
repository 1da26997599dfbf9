package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	a.checkSession()

	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.prefs != nil && a.loggedIn {
		s += "autosave:" + onOff(a.prefs.AutosaveEnabled(context.Background()))
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the interactive loop on stdin.
func (a *App) Root(ctx context.Context) {
	a.printf("Welcome to the journal CLI (type 'help' for commands)\n")

	if a.reader == nil {
		a.reader = bufio.NewReader(os.Stdin)
	}

	if a.loggedIn {
		_ = a.Dashboard(ctx)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}
