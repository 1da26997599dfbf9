package services

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/gophjournal/internal/client/cache"
	"github.com/dmitrijs2005/gophjournal/internal/client/client"
)

// TagService reads the account's tag vocabulary. Tags are created and
// removed through EntryService.
type TagService interface {
	Vocabulary(ctx context.Context) ([]string, error)
}

type tagService struct {
	api   client.EntryAPI
	cache *cache.Cache
}

func NewTagService(api client.EntryAPI, c *cache.Cache) TagService {
	return &tagService{api: api, cache: c}
}

func (s *tagService) Vocabulary(ctx context.Context) ([]string, error) {
	tags, err := cache.Get(ctx, s.cache, cache.TagsKey(), s.api.ListTags)
	if err != nil {
		return nil, err
	}
	return slices.Clone(tags), nil
}
