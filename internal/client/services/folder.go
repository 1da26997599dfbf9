package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/client/cache"
	"github.com/dmitrijs2005/gophjournal/internal/client/client"
	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/validation"
)

type FolderService interface {
	List(ctx context.Context) ([]models.Folder, error)
	Get(ctx context.Context, id ids.ID) (*models.Folder, error)
	Create(ctx context.Context, name string) (*models.Folder, error)
	Rename(ctx context.Context, id ids.ID, name string) error
	Delete(ctx context.Context, id ids.ID) error
}

type folderService struct {
	api      client.FolderAPI
	cache    *cache.Cache
	validate *validation.Validator
	log      logging.Logger
}

func NewFolderService(api client.FolderAPI, c *cache.Cache, log logging.Logger) FolderService {
	if log == nil {
		log = logging.Nop()
	}
	return &folderService{api: api, cache: c, validate: validation.New(), log: log.With("component", "folders")}
}

func (s *folderService) List(ctx context.Context) ([]models.Folder, error) {
	return cache.Get(ctx, s.cache, cache.FoldersKey(), s.api.ListFolders)
}

func (s *folderService) Get(ctx context.Context, id ids.ID) (*models.Folder, error) {
	f, err := cache.Get(ctx, s.cache, cache.FolderKey(id), func(ctx context.Context) (*models.Folder, error) {
		return s.api.GetFolder(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	c := *f
	return &c, nil
}

func (s *folderService) Create(ctx context.Context, name string) (*models.Folder, error) {
	req := models.NewFolder{Name: strings.TrimSpace(name)}
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}
	f, err := s.api.CreateFolder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	s.cache.Invalidate(cache.FoldersKey())
	return f, nil
}

func (s *folderService) Rename(ctx context.Context, id ids.ID, name string) error {
	name = strings.TrimSpace(name)
	if err := s.validate.Var("name", name, "required,max=100"); err != nil {
		return err
	}
	if err := s.api.RenameFolder(ctx, id, name); err != nil {
		return fmt.Errorf("rename folder %s: %w", id, err)
	}
	s.cache.Invalidate(cache.FoldersKey(), cache.FolderKey(id))
	return nil
}

// Delete removes the folder. The API moves its entries to unfiled, so every
// entry view is refreshed; entries are never dropped locally.
func (s *folderService) Delete(ctx context.Context, id ids.ID) error {
	err := s.api.DeleteFolder(ctx, id)
	switch {
	case errors.Is(err, common.ErrNotFound):
		s.log.Debug(ctx, "folder already gone", "folder_id", id)
	case err != nil:
		s.log.Error(ctx, "delete folder failed", "folder_id", id, "error", err)
		return fmt.Errorf("delete folder %s: %w", id, err)
	}

	s.cache.Invalidate(cache.FoldersKey())
	s.cache.Remove(cache.FolderKey(id))
	s.cache.Remove(cache.FolderEntriesKey(id))
	s.cache.InvalidatePrefix(cache.PrefixEntry)
	s.cache.InvalidatePrefix(cache.PrefixEntryUUID)
	s.cache.InvalidatePrefix(cache.PrefixEntries)
	return nil
}
