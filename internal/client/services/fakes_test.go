package services

import (
	"context"
	"encoding/json"
	"slices"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/common"
)

// fakeEntryAPI is an in-memory EntryAPI. Entries are stored in their wire
// form. When hold is set, UpdateEntry reports on started and blocks until
// hold is closed.
type fakeEntryAPI struct {
	mu      sync.Mutex
	entries map[ids.ID]*models.Entry
	nextID  ids.ID

	started chan map[string]any
	hold    chan struct{}
	// echo overrides fields of the UpdateEntry response.
	echo map[string]any

	updates   []map[string]any
	tagAdds   [][]string
	tagDrops  []string
	moves     []ids.NullID
	deletes   int
	gets      int
	lists     int
	created   []models.NewEntry
	deleteErr error
	updateErr error
}

func newFakeEntryAPI(entries ...models.Entry) *fakeEntryAPI {
	f := &fakeEntryAPI{entries: make(map[ids.ID]*models.Entry), nextID: 1000}
	for i := range entries {
		e := entries[i]
		f.entries[e.ID] = &e
	}
	return f
}

func (f *fakeEntryAPI) lookup(id ids.ID) (*models.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return e, nil
}

func (f *fakeEntryAPI) snapshot() []models.Entry {
	out := make([]models.Entry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, *e.Clone())
	}
	slices.SortFunc(out, func(a, b models.Entry) int { return int(a.ID - b.ID) })
	return out
}

func (f *fakeEntryAPI) ListEntries(context.Context) ([]models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return f.snapshot(), nil
}

func (f *fakeEntryAPI) CreateEntry(_ context.Context, e models.NewEntry) (*models.CreatedEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, e)
	f.nextID++
	id := f.nextID
	uuid := "uuid-" + strconv.FormatInt(int64(id), 10)
	f.entries[id] = &models.Entry{
		ID: id, UUID: uuid, Title: e.Title, Content: e.Content, WordCount: e.WordCount,
		JournalDate: e.JournalDate, Favorite: e.Favorite, Tags: e.Tags, FolderID: e.FolderID,
	}
	return &models.CreatedEntry{ID: id, UUID: uuid}, nil
}

func (f *fakeEntryAPI) GetEntry(_ context.Context, id ids.ID) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	e, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.Clone(), nil
}

func (f *fakeEntryAPI) GetEntryByUUID(_ context.Context, uuid string) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.UUID == uuid {
			return e.Clone(), nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeEntryAPI) filter(keep func(e *models.Entry) bool) []models.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	var out []models.Entry
	for _, e := range f.snapshot() {
		if keep(&e) {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeEntryAPI) ListEntriesByDate(_ context.Context, date string) ([]models.Entry, error) {
	return f.filter(func(e *models.Entry) bool { return e.JournalDate == date }), nil
}

func (f *fakeEntryAPI) ListEntriesByTimeRange(_ context.Context, r models.TimeRange) ([]models.Entry, error) {
	return f.filter(func(e *models.Entry) bool {
		return !e.CreatedAt.Before(r.From) && !e.CreatedAt.After(r.To)
	}), nil
}

func (f *fakeEntryAPI) ListEntriesByTags(_ context.Context, tags []string) ([]models.Entry, error) {
	return f.filter(func(e *models.Entry) bool {
		return slices.ContainsFunc(tags, e.HasTag)
	}), nil
}

func (f *fakeEntryAPI) ListEntriesByFolder(_ context.Context, folder ids.ID) ([]models.Entry, error) {
	return f.filter(func(e *models.Entry) bool { return e.FolderID == ids.Some(folder) }), nil
}

func (f *fakeEntryAPI) SearchEntries(_ context.Context, q string) ([]models.Entry, error) {
	return f.filter(func(e *models.Entry) bool { return e.Title == q }), nil
}

func (f *fakeEntryAPI) UpdateEntry(_ context.Context, id ids.ID, fields map[string]any) (map[string]any, error) {
	f.mu.Lock()
	f.updates = append(f.updates, fields)
	started, hold := f.started, f.hold
	f.mu.Unlock()

	if started != nil {
		started <- fields
	}
	if hold != nil {
		<-hold
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	e, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	if v, ok := fields["title"].(string); ok {
		e.Title = v
	}
	if v, ok := fields["content"].(string); ok {
		e.Content = v
	}
	if v, ok := fields["wordCount"].(int); ok {
		e.WordCount = v
	}
	if v, ok := fields["favorite"].(bool); ok {
		e.Favorite = v
	}

	resp := map[string]any{
		"id":        e.ID,
		"title":     e.Title,
		"content":   e.Content,
		"wordCount": json.Number(strconv.Itoa(e.WordCount)),
		"favorite":  e.Favorite,
	}
	for k, v := range f.echo {
		resp[k] = v
	}
	return resp, nil
}

func (f *fakeEntryAPI) AddTags(_ context.Context, id ids.ID, tags []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagAdds = append(f.tagAdds, tags)
	e, err := f.lookup(id)
	if err != nil {
		return err
	}
	for _, t := range tags {
		if !e.HasTag(t) {
			e.Tags = append(e.Tags, t)
		}
	}
	return nil
}

func (f *fakeEntryAPI) RemoveTag(_ context.Context, id ids.ID, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagDrops = append(f.tagDrops, tag)
	e, err := f.lookup(id)
	if err != nil {
		return err
	}
	e.Tags = slices.DeleteFunc(e.Tags, func(t string) bool { return t == tag })
	return nil
}

func (f *fakeEntryAPI) AddToFolder(_ context.Context, id ids.ID, folder ids.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, ids.Some(folder))
	e, err := f.lookup(id)
	if err != nil {
		return err
	}
	e.FolderID = ids.Some(folder)
	return nil
}

func (f *fakeEntryAPI) RemoveFromFolder(_ context.Context, id ids.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, ids.NullID{})
	e, err := f.lookup(id)
	if err != nil {
		return err
	}
	e.FolderID = ids.NullID{}
	return nil
}

func (f *fakeEntryAPI) DeleteEntry(_ context.Context, id ids.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, err := f.lookup(id); err != nil {
		return err
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeEntryAPI) ListTags(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	var out []string
	for _, e := range f.snapshot() {
		for _, t := range e.Tags {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeEntryAPI) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func (f *fakeEntryAPI) update(i int) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[i]
}
