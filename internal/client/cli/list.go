package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

// List prints entries, optionally filtered by date, time range, tags or
// folder.
func (a *App) List(ctx context.Context, args []string) error {
	var (
		entries []models.Entry
		err     error
	)

	switch {
	case len(args) == 0:
		entries, err = a.entryService.List(ctx)
	case args[0] == "date" && len(args) == 2:
		entries, err = a.entryService.ListByDate(ctx, args[1])
	case args[0] == "range" && len(args) == 3:
		var r models.TimeRange
		if r, err = parseRange(args[1], args[2]); err == nil {
			entries, err = a.entryService.ListByTimeRange(ctx, r)
		}
	case args[0] == "tag" && len(args) >= 2:
		entries, err = a.entryService.ListByTags(ctx, args[1:]...)
	case args[0] == "folder" && len(args) == 2:
		var id ids.ID
		if id, err = ids.Parse(args[1]); err == nil {
			entries, err = a.entryService.ListByFolder(ctx, id)
		}
	default:
		return errUsage
	}
	if err != nil {
		return a.fail(ctx, "list entries", err)
	}

	a.printEntries(entries)
	return nil
}

// Search prints entries matching the free text query.
func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	entries, err := a.entryService.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return a.fail(ctx, "search", err)
	}
	a.printEntries(entries)
	return nil
}

// parseRange reads two local calendar dates and returns the range from the
// start of the first day to the end of the second.
func parseRange(from, to string) (models.TimeRange, error) {
	f, err := time.ParseInLocation(models.DateLayout, from, time.Local)
	if err != nil {
		return models.TimeRange{}, fmt.Errorf("bad from date %q: %w", from, err)
	}
	t, err := time.ParseInLocation(models.DateLayout, to, time.Local)
	if err != nil {
		return models.TimeRange{}, fmt.Errorf("bad to date %q: %w", to, err)
	}
	return models.TimeRange{From: f, To: t.AddDate(0, 0, 1).Add(-time.Nanosecond)}, nil
}

func (a *App) printEntries(entries []models.Entry) {
	if len(entries) == 0 {
		a.printf("No entries.\n")
		return
	}
	for _, e := range entries {
		a.printf("%s\n", entryLine(e))
	}
}

func entryLine(e models.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %s  ", e.ID, e.JournalDate)
	if e.Favorite {
		b.WriteString("* ")
	}
	title := e.Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(title)
	fmt.Fprintf(&b, "  [%d words]", e.WordCount)
	if len(e.Tags) > 0 {
		b.WriteString("  #" + strings.Join(e.Tags, " #"))
	}
	return b.String()
}
