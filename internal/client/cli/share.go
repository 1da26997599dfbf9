package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

// Share publishes an entry and manages who may read it.
func (a *App) Share(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "show":
		if len(args) != 2 {
			return errUsage
		}
		s, err := a.shareService.Get(ctx, args[1])
		if err != nil {
			return a.fail(ctx, "load shared entry", err)
		}
		a.printShare(s)
		return nil

	case "add", "rm":
		if len(args) != 3 {
			return errUsage
		}
		var err error
		if args[0] == "add" {
			err = a.shareService.AddUser(ctx, args[1], args[2])
		} else {
			err = a.shareService.RemoveUser(ctx, args[1], args[2])
		}
		if err != nil {
			return a.fail(ctx, "update share", err)
		}
		return nil
	}

	id, err := argID(args, 0)
	if err != nil {
		return a.fail(ctx, "share entry", err)
	}
	var (
		anyone bool
		emails []string
	)
	for _, arg := range args[1:] {
		if arg == "--anyone" {
			anyone = true
			continue
		}
		emails = append(emails, arg)
	}

	s, err := a.shareService.Share(ctx, id, emails, anyone)
	if err != nil {
		return a.fail(ctx, "share entry", err)
	}
	a.printf("Shared as %s\n", s.ID)
	return nil
}

func (a *App) printShare(s *models.SharedEntry) {
	a.printf("%s  %s\n", s.JournalDate, s.Title)
	switch {
	case s.AnyoneWithLink:
		a.printf("visible to: anyone with the link\n")
	case len(s.AllowedEmails) > 0:
		a.printf("visible to: %s\n", strings.Join(s.AllowedEmails, ", "))
	}
	a.printf("\n%s\n", s.Content)
}
