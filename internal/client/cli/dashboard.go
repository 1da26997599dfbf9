package cli

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"golang.org/x/sync/errgroup"
)

// recentCount is how many entries the dashboard shows.
const recentCount = 5

// Dashboard prints the profile, the daily prompt, recent entries and the
// tags in use. The four reads run concurrently; a failing one is reported
// without hiding the others.
func (a *App) Dashboard(ctx context.Context) error {
	var (
		user    *models.User
		prompt  *models.DailyPrompt
		entries []models.Entry
		tags    []string
		errs    [4]error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, errs[0] = a.userService.Me(gctx)
		return nil
	})
	g.Go(func() error {
		prompt, errs[1] = a.promptService.Daily(gctx)
		return nil
	})
	g.Go(func() error {
		entries, errs[2] = a.entryService.List(gctx)
		return nil
	})
	g.Go(func() error {
		tags, errs[3] = a.tagService.Vocabulary(gctx)
		return nil
	})
	_ = g.Wait()

	if errs[0] == nil {
		a.userName = user.Username
		a.printf("%s, %d day streak\n", user.Username, user.Streak)
	}
	if errs[1] == nil {
		a.printf("Today's prompt: %s\n", prompt.Prompt)
	}
	if errs[2] == nil {
		a.printf("\nRecent entries:\n")
		a.printEntries(entries[:min(len(entries), recentCount)])
	}
	if errs[3] == nil && len(tags) > 0 {
		a.printf("\nTags: %d in use\n", len(tags))
	}

	for i, what := range []string{"load profile", "load daily prompt", "load entries", "load tags"} {
		if errs[i] != nil {
			return a.fail(ctx, what, errs[i])
		}
	}
	return nil
}
