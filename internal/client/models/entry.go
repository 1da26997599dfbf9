package models

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
)

// DateLayout is the format of journal dates on the wire and in paths.
const DateLayout = "2006-01-02"

// Entry is one journal record as last confirmed by the server.
type Entry struct {
	ID          ids.ID     `json:"id"`
	UUID        string     `json:"uuid"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	WordCount   int        `json:"wordCount"`
	JournalDate string     `json:"journalDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastEdited  time.Time  `json:"lastEdited"`
	Favorite    bool       `json:"favorite"`
	Tags        []string   `json:"tags"`
	FolderID    ids.NullID `json:"folderId"`
}

// Clone returns a copy that shares no slices with e.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	c.Tags = slices.Clone(e.Tags)
	return &c
}

// HasTag reports whether name is attached to e. Tag names are compared
// exactly.
func (e *Entry) HasTag(name string) bool {
	return slices.Contains(e.Tags, name)
}

// NewEntry is the body of POST /entry.
type NewEntry struct {
	Title       string     `json:"title" validate:"max=200"`
	Content     string     `json:"content"`
	WordCount   int        `json:"wordCount"`
	JournalDate string     `json:"journalDate" validate:"omitempty,datetime=2006-01-02"`
	Favorite    bool       `json:"favorite"`
	Tags        []string   `json:"tags" validate:"dive,required,max=64"`
	FolderID    ids.NullID `json:"folderId"`
}

// CreatedEntry is the response of POST /entry.
type CreatedEntry struct {
	ID   ids.ID `json:"id"`
	UUID string `json:"uuid"`
}

// TimeRange bounds GET /entry/time-range. Both ends are inclusive.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// TagQuery is the body of POST /entry/tag.
type TagQuery struct {
	Tags []string `json:"tags" validate:"min=1,dive,required"`
}

// TagNames is the body of POST /entry/{id}/tag/new.
type TagNames struct {
	Tags []string `json:"tags" validate:"min=1,dive,required,max=64"`
}

// DedupTags drops repeated names while keeping first-seen order.
func DedupTags(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
