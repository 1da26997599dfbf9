package cli

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/filex"
)

// Attach uploads a local file to an entry.
func (a *App) Attach(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return errUsage
	}

	path, err := filex.ExpandHome(args[1])
	if err != nil {
		return a.fail(ctx, "attach file", err)
	}
	m, err := a.mediaService.UploadFile(ctx, id, path)
	if err != nil {
		return a.fail(ctx, "attach file", err)
	}
	a.printf("Attached %s (%s, %d bytes)\n", m.FileName, m.ContentType, m.Size)
	return nil
}

// Media lists the files attached to an entry.
func (a *App) Media(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}

	list, err := a.mediaService.List(ctx, id)
	if err != nil {
		return a.fail(ctx, "list media", err)
	}
	if len(list) == 0 {
		a.printf("No attachments.\n")
	}
	for _, m := range list {
		a.printf("%-20s %-24s %-16s %8d  %s\n", m.ID, m.FileName, m.ContentType, m.Size, m.URL)
	}
	return nil
}
