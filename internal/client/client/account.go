package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

func (c *HTTPClient) DailyPrompt(ctx context.Context) (*models.DailyPrompt, error) {
	var out models.DailyPrompt
	if err := c.do(ctx, request{method: http.MethodGet, segments: []string{"ai", "daily-prompt"}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, request{method: http.MethodGet, segments: []string{"user", "me"}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
