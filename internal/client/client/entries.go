package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

// entryHint names the identifier fields of an entry object.
var entryHint = ids.Fields("id", "folderId")

func (c *HTTPClient) listEntries(ctx context.Context, r request) ([]models.Entry, error) {
	var out []models.Entry
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Entry{}
	}
	return out, nil
}

func (c *HTTPClient) getEntry(ctx context.Context, segments ...string) (*models.Entry, error) {
	var e models.Entry
	if err := c.do(ctx, request{method: http.MethodGet, segments: segments}, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) ListEntries(ctx context.Context) ([]models.Entry, error) {
	return c.listEntries(ctx, request{method: http.MethodGet, segments: []string{"entry"}})
}

func (c *HTTPClient) CreateEntry(ctx context.Context, e models.NewEntry) (*models.CreatedEntry, error) {
	var out models.CreatedEntry
	if err := c.do(ctx, request{method: http.MethodPost, segments: []string{"entry"}, body: e}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetEntry(ctx context.Context, id ids.ID) (*models.Entry, error) {
	return c.getEntry(ctx, "entry", id.String())
}

func (c *HTTPClient) GetEntryByUUID(ctx context.Context, uuid string) (*models.Entry, error) {
	return c.getEntry(ctx, "entry", "uuid", uuid)
}

func (c *HTTPClient) ListEntriesByDate(ctx context.Context, date string) ([]models.Entry, error) {
	return c.listEntries(ctx, request{method: http.MethodGet, segments: []string{"entry", "date", date}})
}

func (c *HTTPClient) ListEntriesByTimeRange(ctx context.Context, r models.TimeRange) ([]models.Entry, error) {
	q := url.Values{}
	q.Set("from", r.From.UTC().Format(time.RFC3339))
	q.Set("to", r.To.UTC().Format(time.RFC3339))
	return c.listEntries(ctx, request{method: http.MethodGet, segments: []string{"entry", "time-range"}, query: q})
}

func (c *HTTPClient) ListEntriesByTags(ctx context.Context, tags []string) ([]models.Entry, error) {
	return c.listEntries(ctx, request{method: http.MethodPost, segments: []string{"entry", "tag"}, body: models.TagQuery{Tags: tags}})
}

func (c *HTTPClient) ListEntriesByFolder(ctx context.Context, folder ids.ID) ([]models.Entry, error) {
	return c.listEntries(ctx, request{method: http.MethodGet, segments: []string{"entry", "folder", folder.String()}})
}

func (c *HTTPClient) SearchEntries(ctx context.Context, query string) ([]models.Entry, error) {
	q := url.Values{}
	q.Set("q", query)
	return c.listEntries(ctx, request{method: http.MethodGet, segments: []string{"entry", "search"}, query: q})
}

func (c *HTTPClient) UpdateEntry(ctx context.Context, id ids.ID, fields map[string]any) (map[string]any, error) {
	r := request{method: http.MethodPut, segments: []string{"entry", id.String(), "update"}, body: fields}
	v, err := c.doHinted(ctx, r, entryHint)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &APIError{Method: r.method, Path: c.endpoint(r.segments, nil).EscapedPath(),
			Message: fmt.Sprintf("unexpected response of type %T", v)}
	}
	return m, nil
}

func (c *HTTPClient) AddTags(ctx context.Context, id ids.ID, tags []string) error {
	return c.do(ctx, request{method: http.MethodPost, segments: []string{"entry", id.String(), "tag", "new"},
		body: models.TagNames{Tags: tags}}, nil)
}

func (c *HTTPClient) RemoveTag(ctx context.Context, id ids.ID, tag string) error {
	return c.do(ctx, request{method: http.MethodDelete, segments: []string{"entry", id.String(), "tag", tag}}, nil)
}

func (c *HTTPClient) AddToFolder(ctx context.Context, id ids.ID, folder ids.ID) error {
	return c.do(ctx, request{method: http.MethodPost, segments: []string{"entry", id.String(), "add-to-folder", folder.String()}}, nil)
}

func (c *HTTPClient) RemoveFromFolder(ctx context.Context, id ids.ID) error {
	return c.do(ctx, request{method: http.MethodDelete, segments: []string{"entry", id.String(), "remove-from-folder"}}, nil)
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, id ids.ID) error {
	return c.do(ctx, request{method: http.MethodDelete, segments: []string{"entry", id.String()}}, nil)
}

func (c *HTTPClient) ListTags(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, request{method: http.MethodGet, segments: []string{"tags"}}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
