package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/cache"
	"github.com/dmitrijs2005/gophjournal/internal/client/client"
	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/validation"
)

// EntryService coordinates every write to journal entries and serves entry
// reads through the query cache.
//
// Writes are pessimistic: the cache changes only after the server confirmed
// a write. Within one field group of one entry requests are sent one at a
// time in issue order; a request overtaken by a newer one of the same group
// before it was sent is dropped, and a response that returns after a newer
// request was issued is discarded instead of merged.
type EntryService interface {
	Create(ctx context.Context, e models.NewEntry) (*models.CreatedEntry, error)
	Update(ctx context.Context, id ids.ID, patch models.EntryPatch) (*UpdateResult, error)
	SaveContent(ctx context.Context, id ids.ID, content string) error
	Delete(ctx context.Context, id ids.ID) error
	AddTags(ctx context.Context, id ids.ID, names ...string) error
	RemoveTag(ctx context.Context, id ids.ID, name string) error
	MoveToFolder(ctx context.Context, id ids.ID, folder *ids.ID) error

	Get(ctx context.Context, id ids.ID) (*models.Entry, error)
	GetByUUID(ctx context.Context, uuid string) (*models.Entry, error)
	List(ctx context.Context) ([]models.Entry, error)
	ListByFolder(ctx context.Context, folder ids.ID) ([]models.Entry, error)
	ListByDate(ctx context.Context, date string) ([]models.Entry, error)
	ListByTimeRange(ctx context.Context, r models.TimeRange) ([]models.Entry, error)
	ListByTags(ctx context.Context, tags ...string) ([]models.Entry, error)
	Search(ctx context.Context, query string) ([]models.Entry, error)
}

// UpdateResult reports what became of an Update.
type UpdateResult struct {
	// Applied lists the field groups confirmed and merged into the cache.
	Applied []models.FieldGroup
	// Discarded lists groups overtaken by a newer request. Their values
	// were either never sent or their response was dropped.
	Discarded []models.FieldGroup
	// Superseded is set when nothing of the patch was applied.
	Superseded bool
}

type entryService struct {
	api      client.EntryAPI
	cache    *cache.Cache
	lanes    *coordinator
	validate *validation.Validator
	log      logging.Logger
}

func NewEntryService(api client.EntryAPI, c *cache.Cache, log logging.Logger) EntryService {
	if log == nil {
		log = logging.Nop()
	}
	return &entryService{
		api:      api,
		cache:    c,
		lanes:    newCoordinator(),
		validate: validation.New(),
		log:      log.With("component", "entries"),
	}
}

func (s *entryService) Create(ctx context.Context, e models.NewEntry) (*models.CreatedEntry, error) {
	e.Tags = models.DedupTags(e.Tags)
	if err := s.validate.Validate(e); err != nil {
		return nil, err
	}

	e.WordCount = models.WordCount(e.Content)
	e.Content = models.EscapeContent(e.Content)

	created, err := s.api.CreateEntry(ctx, e)
	if err != nil {
		s.log.Error(ctx, "create entry failed", "error", err)
		return nil, fmt.Errorf("create entry: %w", err)
	}

	keys := []cache.Key{cache.EntriesKey()}
	if e.FolderID.Valid {
		keys = append(keys, cache.FolderEntriesKey(e.FolderID.ID))
	}
	for _, t := range e.Tags {
		keys = append(keys, cache.TagEntriesKey(t))
	}
	if len(e.Tags) > 0 {
		keys = append(keys, cache.TagsKey())
	}
	date := e.JournalDate
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}
	keys = append(keys, cache.DateEntriesKey(date))
	s.cache.Invalidate(keys...)
	s.cache.InvalidatePrefix(cache.PrefixEntries + "/search/")
	s.cache.InvalidatePrefix(cache.PrefixEntries + "/range/")

	s.log.Info(ctx, "entry created", "entry_id", created.ID)
	return created, nil
}

func (s *entryService) Update(ctx context.Context, id ids.ID, patch models.EntryPatch) (*UpdateResult, error) {
	if patch.Empty() {
		return nil, common.NewValidationError("patch", "must change at least one field")
	}
	if patch.Title != nil {
		if err := s.validate.Var("title", *patch.Title, "max=200"); err != nil {
			return nil, err
		}
	}

	groups := patch.Groups()
	tickets := s.lanes.issue(id, groups)
	defer s.lanes.finish(tickets)

	if err := s.lanes.acquire(ctx, tickets); err != nil {
		return nil, err
	}

	live := s.lanes.liveGroups(tickets)
	if len(live) == 0 {
		s.log.Debug(ctx, "update coalesced", "entry_id", id, "groups", groups)
		return &UpdateResult{Discarded: groups, Superseded: true}, nil
	}

	send := patch.Only(live)
	resp, err := s.api.UpdateEntry(ctx, id, send.Payload())
	if err != nil {
		s.log.Error(ctx, "update entry failed", "entry_id", id, "groups", live, "error", err)
		return nil, fmt.Errorf("update entry %s: %w", id, err)
	}

	applied := s.lanes.liveGroups(tickets)
	res := &UpdateResult{Applied: applied}
	for _, g := range groups {
		if !slices.Contains(applied, g) {
			res.Discarded = append(res.Discarded, g)
		}
	}
	res.Superseded = len(applied) == 0
	if len(res.Discarded) > 0 {
		s.log.Debug(ctx, "stale response discarded", "entry_id", id, "groups", res.Discarded)
	}

	if len(applied) > 0 {
		s.mergeEntry(id, func(e *models.Entry) { mergeResponse(e, resp, send, applied) })
	} else {
		s.cache.Invalidate(cache.EntryKey(id))
	}
	s.invalidateEntryViews()
	return res, nil
}

// SaveContent is the autosave path: a content-only update. A superseded save
// is not an error, a newer one is on its way.
func (s *entryService) SaveContent(ctx context.Context, id ids.ID, content string) error {
	_, err := s.Update(ctx, id, models.EntryPatch{Content: &content})
	return err
}

func (s *entryService) Delete(ctx context.Context, id ids.ID) error {
	tickets := s.lanes.issue(id, allGroups)
	defer s.lanes.finish(tickets)

	if err := s.lanes.acquire(ctx, tickets); err != nil {
		return err
	}

	err := s.api.DeleteEntry(ctx, id)
	switch {
	case errors.Is(err, common.ErrNotFound):
		s.log.Debug(ctx, "entry already gone", "entry_id", id)
	case err != nil:
		s.log.Error(ctx, "delete entry failed", "entry_id", id, "error", err)
		return fmt.Errorf("delete entry %s: %w", id, err)
	}

	s.cache.Remove(cache.EntryKey(id))
	s.cache.Remove(cache.MediaKey(id))
	s.cache.Invalidate(cache.TagsKey())
	s.invalidateEntryViews()
	return nil
}

func (s *entryService) AddTags(ctx context.Context, id ids.ID, names ...string) error {
	names = models.DedupTags(names)
	if err := s.validate.Validate(models.TagNames{Tags: names}); err != nil {
		return err
	}

	tickets := s.lanes.issue(id, []models.FieldGroup{models.GroupTags})
	defer s.lanes.finish(tickets)
	if err := s.lanes.acquire(ctx, tickets); err != nil {
		return err
	}

	if err := s.api.AddTags(ctx, id, names); err != nil {
		s.log.Error(ctx, "add tags failed", "entry_id", id, "error", err)
		return fmt.Errorf("add tags to entry %s: %w", id, err)
	}

	s.mergeEntry(id, func(e *models.Entry) {
		for _, n := range names {
			if !e.HasTag(n) {
				e.Tags = append(e.Tags, n)
			}
		}
	})
	s.invalidateTags(names...)
	return nil
}

func (s *entryService) RemoveTag(ctx context.Context, id ids.ID, name string) error {
	if err := s.validate.Var("tag", name, "required"); err != nil {
		return err
	}

	tickets := s.lanes.issue(id, []models.FieldGroup{models.GroupTags})
	defer s.lanes.finish(tickets)
	if err := s.lanes.acquire(ctx, tickets); err != nil {
		return err
	}

	if err := s.api.RemoveTag(ctx, id, name); err != nil {
		s.log.Error(ctx, "remove tag failed", "entry_id", id, "tag", name, "error", err)
		return fmt.Errorf("remove tag %q from entry %s: %w", name, id, err)
	}

	s.mergeEntry(id, func(e *models.Entry) {
		e.Tags = slices.DeleteFunc(e.Tags, func(t string) bool { return t == name })
	})
	s.invalidateTags(name)
	return nil
}

// MoveToFolder files the entry into folder, or unfiles it when folder is
// nil. Unfiling has its own endpoint.
func (s *entryService) MoveToFolder(ctx context.Context, id ids.ID, folder *ids.ID) error {
	tickets := s.lanes.issue(id, []models.FieldGroup{models.GroupFolder})
	defer s.lanes.finish(tickets)
	if err := s.lanes.acquire(ctx, tickets); err != nil {
		return err
	}
	if !s.lanes.latest(tickets[0]) {
		s.log.Debug(ctx, "folder move coalesced", "entry_id", id)
		return nil
	}

	old, oldKnown := s.cachedFolder(id)

	var err error
	if folder == nil {
		err = s.api.RemoveFromFolder(ctx, id)
	} else {
		err = s.api.AddToFolder(ctx, id, *folder)
	}
	if err != nil {
		s.log.Error(ctx, "move entry failed", "entry_id", id, "folder", ids.FromPtr(folder), "error", err)
		return fmt.Errorf("move entry %s to folder %s: %w", id, ids.FromPtr(folder), err)
	}

	if s.lanes.latest(tickets[0]) {
		s.mergeEntry(id, func(e *models.Entry) { e.FolderID = ids.FromPtr(folder) })
	} else {
		s.cache.Invalidate(cache.EntryKey(id))
	}

	switch {
	case !oldKnown:
		s.cache.InvalidatePrefix(cache.PrefixFolderEntries)
	case old.Valid:
		s.cache.Invalidate(cache.FolderEntriesKey(old.ID))
	}
	if folder != nil {
		s.cache.Invalidate(cache.FolderEntriesKey(*folder))
	}
	s.cache.Invalidate(cache.EntriesKey())
	return nil
}

func (s *entryService) cachedFolder(id ids.ID) (ids.NullID, bool) {
	v, _, ok := s.cache.Peek(cache.EntryKey(id))
	if !ok {
		return ids.NullID{}, false
	}
	e, ok := v.(*models.Entry)
	if !ok {
		return ids.NullID{}, false
	}
	return e.FolderID, true
}

// mergeEntry applies fn to a copy of the cached entry and marks it stale.
// Uncached entries are left for the next read.
func (s *entryService) mergeEntry(id ids.ID, fn func(e *models.Entry)) {
	updated := s.cache.Update(cache.EntryKey(id), func(old any) any {
		e, ok := old.(*models.Entry)
		if !ok {
			return old
		}
		c := e.Clone()
		fn(c)
		return c
	})
	if !updated {
		s.cache.Invalidate(cache.EntryKey(id))
	}
	s.cache.InvalidatePrefix(cache.PrefixEntryUUID)
}

func (s *entryService) invalidateEntryViews() {
	s.cache.InvalidatePrefix(cache.PrefixEntries)
	s.cache.InvalidatePrefix(cache.PrefixEntryUUID)
}

func (s *entryService) invalidateTags(names ...string) {
	keys := []cache.Key{cache.TagsKey(), cache.EntriesKey()}
	for _, n := range names {
		keys = append(keys, cache.TagEntriesKey(n))
	}
	s.cache.Invalidate(keys...)
	s.cache.InvalidatePrefix(cache.PrefixEntries + "/search/")
}

// mergeResponse copies the fields of the applied groups onto e. Values the
// server echoed win over what was sent; other fields of e are untouched.
func mergeResponse(e *models.Entry, resp map[string]any, sent models.EntryPatch, groups []models.FieldGroup) {
	sent.Apply(e, groups)
	for _, g := range groups {
		for _, f := range g.Fields() {
			v, ok := resp[f]
			if !ok {
				continue
			}
			switch f {
			case "content":
				if s, ok := v.(string); ok {
					e.Content = models.UnescapeContent(s)
				}
			case "wordCount":
				if n, ok := v.(json.Number); ok {
					if i, err := n.Int64(); err == nil {
						e.WordCount = int(i)
					}
				}
			case "title":
				if s, ok := v.(string); ok {
					e.Title = s
				}
			case "favorite":
				if b, ok := v.(bool); ok {
					e.Favorite = b
				}
			}
		}
	}
}
