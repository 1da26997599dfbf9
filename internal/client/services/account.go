package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/cache"
	"github.com/dmitrijs2005/gophjournal/internal/client/client"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

// PromptService serves the daily writing prompt, fetched once per day.
type PromptService interface {
	Daily(ctx context.Context) (*models.DailyPrompt, error)
}

// UserService serves the signed-in account.
type UserService interface {
	Me(ctx context.Context) (*models.User, error)
}

type accountService struct {
	api   client.AccountAPI
	cache *cache.Cache
	now   func() time.Time
}

func NewPromptService(api client.AccountAPI, c *cache.Cache) PromptService {
	return &accountService{api: api, cache: c, now: time.Now}
}

func NewUserService(api client.AccountAPI, c *cache.Cache) UserService {
	return &accountService{api: api, cache: c, now: time.Now}
}

func (s *accountService) Daily(ctx context.Context) (*models.DailyPrompt, error) {
	key := cache.DailyPromptKey(s.now().Format(models.DateLayout))
	p, err := cache.Get(ctx, s.cache, key, s.api.DailyPrompt)
	if err != nil {
		return nil, err
	}
	c := *p
	return &c, nil
}

func (s *accountService) Me(ctx context.Context) (*models.User, error) {
	u, err := cache.Get(ctx, s.cache, cache.UserKey(), s.api.Me)
	if err != nil {
		return nil, err
	}
	c := *u
	return &c, nil
}
