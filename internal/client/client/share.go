package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

func (c *HTTPClient) ShareEntry(ctx context.Context, s models.NewShare) (*models.SharedEntry, error) {
	var out models.SharedEntry
	if err := c.do(ctx, request{method: http.MethodPost, segments: []string{"shared-entry", "new"}, body: s}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetSharedEntry(ctx context.Context, id string) (*models.SharedEntry, error) {
	var out models.SharedEntry
	if err := c.do(ctx, request{method: http.MethodGet, segments: []string{"shared-entry", id}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) AddShareUser(ctx context.Context, id string, u models.ShareUser) error {
	return c.do(ctx, request{method: http.MethodPost, segments: []string{"shared-entry", id, "add-user"}, body: u}, nil)
}

func (c *HTTPClient) RemoveShareUser(ctx context.Context, id string, u models.ShareUser) error {
	return c.do(ctx, request{method: http.MethodDelete, segments: []string{"shared-entry", id, "remove-user"}, body: u}, nil)
}
