package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

// New prompts for a title, date, tags and body and creates an entry.
// With "new blank" only the title is asked and the body is left for
// "write".
func (a *App) New(ctx context.Context, args []string) error {
	blank := len(args) == 1 && args[0] == "blank"
	if len(args) > 0 && !blank {
		return errUsage
	}

	e, err := a.inputEntry(ctx, blank)
	if err != nil {
		a.printf("Error: %s\n", err)
		return err
	}

	created, err := a.entryService.Create(ctx, e)
	if err != nil {
		return a.fail(ctx, "create entry", err)
	}
	a.printf("Created entry %s\n", created.ID)
	return nil
}

func (a *App) inputEntry(ctx context.Context, blank bool) (models.NewEntry, error) {
	var e models.NewEntry

	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return e, err
	}
	e.Title = title
	if blank {
		return e, nil
	}

	date, err := getSimpleText(a.reader, "Enter journal date YYYY-MM-DD (empty for today)", a.out)
	if err != nil {
		return e, err
	}
	e.JournalDate = date

	if e.Tags, err = GetList(a.reader, "Enter tags", a.out); err != nil {
		return e, err
	}
	if err := ctx.Err(); err != nil {
		return e, err
	}

	if e.Content, err = GetMultiline(a.reader, "Enter text", a.out); err != nil {
		return e, err
	}
	return e, nil
}

// Retitle renames an entry.
func (a *App) Retitle(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errUsage
	}
	title := strings.Join(args[1:], " ")

	res, err := a.entryService.Update(ctx, id, models.EntryPatch{Title: &title})
	if err != nil {
		return a.fail(ctx, "rename entry", err)
	}
	if res.Superseded {
		a.printf("A newer title change took over.\n")
	}
	return nil
}

// Favorite toggles or sets the favorite mark of an entry.
func (a *App) Favorite(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}

	var fav bool
	switch {
	case len(args) == 1:
		e, err := a.entryService.Get(ctx, id)
		if err != nil {
			return a.fail(ctx, "load entry", err)
		}
		fav = !e.Favorite
	case args[1] == "on":
		fav = true
	case args[1] == "off":
		fav = false
	default:
		return errUsage
	}

	if _, err := a.entryService.Update(ctx, id, models.EntryPatch{Favorite: &fav}); err != nil {
		return a.fail(ctx, "update favorite", err)
	}
	if fav {
		a.printf("Marked as favorite.\n")
	} else {
		a.printf("Removed from favorites.\n")
	}
	return nil
}

// Tag adds or removes tags of an entry, or lists every tag in use.
func (a *App) Tag(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if args[0] == "list" {
		tags, err := a.tagService.Vocabulary(ctx)
		if err != nil {
			return a.fail(ctx, "list tags", err)
		}
		if len(tags) == 0 {
			a.printf("No tags.\n")
		}
		for _, t := range tags {
			a.printf("#%s\n", t)
		}
		return nil
	}

	id, err := argID(args, 1)
	if err != nil {
		return err
	}
	switch {
	case args[0] == "add" && len(args) >= 3:
		if err := a.entryService.AddTags(ctx, id, args[2:]...); err != nil {
			return a.fail(ctx, "add tags", err)
		}
	case args[0] == "rm" && len(args) == 3:
		if err := a.entryService.RemoveTag(ctx, id, args[2]); err != nil {
			return a.fail(ctx, "remove tag", err)
		}
	default:
		return errUsage
	}
	return nil
}

// Move files an entry into a folder; "none" takes it out of its folder.
func (a *App) Move(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return errUsage
	}

	var folder *ids.ID
	if args[1] != "none" {
		f, err := ids.Parse(args[1])
		if err != nil {
			return a.fail(ctx, "move entry", err)
		}
		folder = &f
	}

	if err := a.entryService.MoveToFolder(ctx, id, folder); err != nil {
		return a.fail(ctx, "move entry", err)
	}
	return nil
}
