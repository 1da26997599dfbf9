package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/cache"
	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/common"
)

func (s *entryService) Get(ctx context.Context, id ids.ID) (*models.Entry, error) {
	e, err := cache.Get(ctx, s.cache, cache.EntryKey(id), func(ctx context.Context) (*models.Entry, error) {
		e, err := s.api.GetEntry(ctx, id)
		if err != nil {
			return nil, err
		}
		return fromWire(e), nil
	})
	if err != nil {
		return nil, err
	}
	return e.Clone(), nil
}

func (s *entryService) GetByUUID(ctx context.Context, uuid string) (*models.Entry, error) {
	e, err := cache.Get(ctx, s.cache, cache.EntryUUIDKey(uuid), func(ctx context.Context) (*models.Entry, error) {
		e, err := s.api.GetEntryByUUID(ctx, uuid)
		if err != nil {
			return nil, err
		}
		return fromWire(e), nil
	})
	if err != nil {
		return nil, err
	}
	return e.Clone(), nil
}

func (s *entryService) List(ctx context.Context) ([]models.Entry, error) {
	return s.list(ctx, cache.EntriesKey(), s.api.ListEntries)
}

func (s *entryService) ListByFolder(ctx context.Context, folder ids.ID) ([]models.Entry, error) {
	return s.list(ctx, cache.FolderEntriesKey(folder), func(ctx context.Context) ([]models.Entry, error) {
		return s.api.ListEntriesByFolder(ctx, folder)
	})
}

func (s *entryService) ListByDate(ctx context.Context, date string) ([]models.Entry, error) {
	if err := s.validate.Var("date", date, "required,datetime=2006-01-02"); err != nil {
		return nil, err
	}
	return s.list(ctx, cache.DateEntriesKey(date), func(ctx context.Context) ([]models.Entry, error) {
		return s.api.ListEntriesByDate(ctx, date)
	})
}

func (s *entryService) ListByTimeRange(ctx context.Context, r models.TimeRange) ([]models.Entry, error) {
	if r.To.Before(r.From) {
		return nil, common.NewValidationError("to", "must not be before from")
	}
	key := cache.RangeKey(r.From.UTC().Format(time.RFC3339), r.To.UTC().Format(time.RFC3339))
	return s.list(ctx, key, func(ctx context.Context) ([]models.Entry, error) {
		return s.api.ListEntriesByTimeRange(ctx, r)
	})
}

// ListByTags returns entries carrying any of tags. Single-tag queries are
// cached under the tag's key.
func (s *entryService) ListByTags(ctx context.Context, tags ...string) ([]models.Entry, error) {
	tags = models.DedupTags(tags)
	if err := s.validate.Validate(models.TagQuery{Tags: tags}); err != nil {
		return nil, err
	}
	load := func(ctx context.Context) ([]models.Entry, error) {
		return s.api.ListEntriesByTags(ctx, tags)
	}
	if len(tags) == 1 {
		return s.list(ctx, cache.TagEntriesKey(tags[0]), load)
	}
	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	return fromWireList(out), nil
}

func (s *entryService) Search(ctx context.Context, query string) ([]models.Entry, error) {
	if err := s.validate.Var("query", query, "required"); err != nil {
		return nil, err
	}
	return s.list(ctx, cache.SearchKey(query), func(ctx context.Context) ([]models.Entry, error) {
		return s.api.SearchEntries(ctx, query)
	})
}

func (s *entryService) list(ctx context.Context, key cache.Key, load func(ctx context.Context) ([]models.Entry, error)) ([]models.Entry, error) {
	out, err := cache.Get(ctx, s.cache, key, func(ctx context.Context) ([]models.Entry, error) {
		out, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return fromWireList(out), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneEntries(out), nil
}

// fromWire unescapes content received from the API.
func fromWire(e *models.Entry) *models.Entry {
	e.Content = models.UnescapeContent(e.Content)
	return e
}

func fromWireList(in []models.Entry) []models.Entry {
	for i := range in {
		fromWire(&in[i])
	}
	return in
}

func cloneEntries(in []models.Entry) []models.Entry {
	out := make([]models.Entry, len(in))
	for i := range in {
		out[i] = *in[i].Clone()
	}
	return out
}
