package cli

import (
	"context"
	"strings"
)

// Folder manages folders: list, new, rename and delete.
func (a *App) Folder(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		folders, err := a.folderService.List(ctx)
		if err != nil {
			return a.fail(ctx, "list folders", err)
		}
		if len(folders) == 0 {
			a.printf("No folders.\n")
		}
		for _, f := range folders {
			a.printf("%-20s %s\n", f.ID, f.Name)
		}

	case "new":
		if len(args) < 2 {
			return errUsage
		}
		f, err := a.folderService.Create(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return a.fail(ctx, "create folder", err)
		}
		a.printf("Created folder %s\n", f.ID)

	case "rename":
		id, err := argID(args, 1)
		if err != nil || len(args) < 3 {
			return errUsage
		}
		if err := a.folderService.Rename(ctx, id, strings.Join(args[2:], " ")); err != nil {
			return a.fail(ctx, "rename folder", err)
		}

	case "delete":
		id, err := argID(args, 1)
		if err != nil {
			return errUsage
		}
		if err := a.folderService.Delete(ctx, id); err != nil {
			return a.fail(ctx, "delete folder", err)
		}
		a.printf("Folder deleted, its entries are kept.\n")

	default:
		return errUsage
	}
	return nil
}
