package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/dmitrijs2005/gophjournal/internal/client/cache"
	"github.com/dmitrijs2005/gophjournal/internal/client/client"
	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/common"
)

// MaxUploadSize caps a single media upload.
const MaxUploadSize = 20 << 20

type MediaService interface {
	List(ctx context.Context, entry ids.ID) ([]models.Media, error)
	Upload(ctx context.Context, entry ids.ID, u models.Upload) (*models.Media, error)
	UploadFile(ctx context.Context, entry ids.ID, path string) (*models.Media, error)
}

type mediaService struct {
	api   client.MediaAPI
	cache *cache.Cache
}

func NewMediaService(api client.MediaAPI, c *cache.Cache) MediaService {
	return &mediaService{api: api, cache: c}
}

func (s *mediaService) List(ctx context.Context, entry ids.ID) ([]models.Media, error) {
	m, err := cache.Get(ctx, s.cache, cache.MediaKey(entry), func(ctx context.Context) ([]models.Media, error) {
		return s.api.ListMedia(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(m), nil
}

func (s *mediaService) Upload(ctx context.Context, entry ids.ID, u models.Upload) (*models.Media, error) {
	switch {
	case u.FileName == "":
		return nil, common.NewValidationError("fileName", "is required")
	case len(u.Data) == 0:
		return nil, common.NewValidationError("file", "is empty")
	case len(u.Data) > MaxUploadSize:
		return nil, common.NewValidationError("file", fmt.Sprintf("must not exceed %d bytes", MaxUploadSize))
	}

	m, err := s.api.UploadMedia(ctx, entry, u)
	if err != nil {
		return nil, fmt.Errorf("upload media to entry %s: %w", entry, err)
	}
	s.cache.Invalidate(cache.MediaKey(entry))
	return m, nil
}

// UploadFile reads path and uploads it under its base name.
func (s *mediaService) UploadFile(ctx context.Context, entry ids.ID, path string) (*models.Media, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() > MaxUploadSize {
		return nil, common.NewValidationError("file", fmt.Sprintf("must not exceed %d bytes", MaxUploadSize))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Upload(ctx, entry, models.Upload{FileName: filepath.Base(path), Data: data})
}
