package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

func argID(args []string, n int) (ids.ID, error) {
	if len(args) <= n {
		return 0, errUsage
	}
	return ids.Parse(args[n])
}

// Delete removes an entry after the user confirmed.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, "Delete entry "+id.String()+"? (y/N)", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		a.printf("Cancelled.\n")
		return nil
	}

	if err := a.entryService.Delete(ctx, id); err != nil {
		return a.fail(ctx, "delete entry", err)
	}
	a.printf("Deleted.\n")
	return nil
}

// Show prints one entry by id, or by uuid with "show uuid UUID".
func (a *App) Show(ctx context.Context, args []string) error {
	var (
		e   *models.Entry
		err error
	)
	if len(args) == 2 && args[0] == "uuid" {
		e, err = a.entryService.GetByUUID(ctx, args[1])
	} else {
		var id ids.ID
		if id, err = argID(args, 0); err != nil {
			return err
		}
		e, err = a.entryService.Get(ctx, id)
	}
	if err != nil {
		return a.fail(ctx, "show entry", err)
	}

	a.printEntry(e)
	return nil
}

func (a *App) printEntry(e *models.Entry) {
	a.printf("%s\n", entryLine(*e))
	a.printf("uuid: %s\n", e.UUID)
	if e.FolderID.Valid {
		a.printf("folder: %s\n", e.FolderID)
	}
	if !e.LastEdited.IsZero() {
		a.printf("last edited: %s\n", e.LastEdited.Local().Format("2006-01-02 15:04"))
	}
	a.printf("\n%s\n", e.Content)
}
