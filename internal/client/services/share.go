package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/client/cache"
	"github.com/dmitrijs2005/gophjournal/internal/client/client"
	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/validation"
)

type ShareService interface {
	Share(ctx context.Context, entry ids.ID, emails []string, anyoneWithLink bool) (*models.SharedEntry, error)
	Get(ctx context.Context, id string) (*models.SharedEntry, error)
	AddUser(ctx context.Context, id, email string) error
	RemoveUser(ctx context.Context, id, email string) error
}

type shareService struct {
	api      client.ShareAPI
	cache    *cache.Cache
	validate *validation.Validator
}

func NewShareService(api client.ShareAPI, c *cache.Cache) ShareService {
	return &shareService{api: api, cache: c, validate: validation.New()}
}

func (s *shareService) Share(ctx context.Context, entry ids.ID, emails []string, anyoneWithLink bool) (*models.SharedEntry, error) {
	req := models.NewShare{EntryID: entry, Emails: trimAll(emails), AnyoneWithLink: anyoneWithLink}
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}
	se, err := s.api.ShareEntry(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("share entry %s: %w", entry, err)
	}
	se.Content = models.UnescapeContent(se.Content)
	return se, nil
}

func (s *shareService) Get(ctx context.Context, id string) (*models.SharedEntry, error) {
	if err := s.validate.Var("id", id, "required"); err != nil {
		return nil, err
	}
	se, err := cache.Get(ctx, s.cache, cache.SharedEntryKey(id), func(ctx context.Context) (*models.SharedEntry, error) {
		se, err := s.api.GetSharedEntry(ctx, id)
		if err != nil {
			return nil, err
		}
		se.Content = models.UnescapeContent(se.Content)
		return se, nil
	})
	if err != nil {
		return nil, err
	}
	c := *se
	return &c, nil
}

func (s *shareService) AddUser(ctx context.Context, id, email string) error {
	u := models.ShareUser{Email: strings.TrimSpace(email)}
	if err := s.validate.Validate(u); err != nil {
		return err
	}
	if err := s.api.AddShareUser(ctx, id, u); err != nil {
		return fmt.Errorf("share %s: add user: %w", id, err)
	}
	s.cache.Invalidate(cache.SharedEntryKey(id))
	return nil
}

func (s *shareService) RemoveUser(ctx context.Context, id, email string) error {
	u := models.ShareUser{Email: strings.TrimSpace(email)}
	if err := s.validate.Validate(u); err != nil {
		return err
	}
	if err := s.api.RemoveShareUser(ctx, id, u); err != nil {
		return fmt.Errorf("share %s: remove user: %w", id, err)
	}
	s.cache.Invalidate(cache.SharedEntryKey(id))
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
