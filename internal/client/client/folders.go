package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

func (c *HTTPClient) ListFolders(ctx context.Context) ([]models.Folder, error) {
	var out []models.Folder
	if err := c.do(ctx, request{method: http.MethodGet, segments: []string{"folder"}}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Folder{}
	}
	return out, nil
}

func (c *HTTPClient) CreateFolder(ctx context.Context, f models.NewFolder) (*models.Folder, error) {
	var out models.Folder
	if err := c.do(ctx, request{method: http.MethodPost, segments: []string{"folder"}, body: f}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetFolder(ctx context.Context, id ids.ID) (*models.Folder, error) {
	var out models.Folder
	if err := c.do(ctx, request{method: http.MethodGet, segments: []string{"folder", id.String()}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RenameFolder(ctx context.Context, id ids.ID, name string) error {
	return c.do(ctx, request{method: http.MethodPut, segments: []string{"folder", id.String(), "update-name", name}}, nil)
}

func (c *HTTPClient) DeleteFolder(ctx context.Context, id ids.ID) error {
	return c.do(ctx, request{method: http.MethodDelete, segments: []string{"folder", id.String()}}, nil)
}
