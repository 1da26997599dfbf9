package client

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophjournal/internal/client/repositories/metadata"
)

// TokenStore holds the bearer session token. An empty token means signed
// out.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (s *MemoryTokenStore) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryTokenStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) ClearToken(ctx context.Context) error {
	return s.SetToken(ctx, "")
}

// SessionTokenKey is the metadata key of the persisted session token.
const SessionTokenKey = "session_token"

// MetadataTokenStore persists the session token in the local store so it
// survives restarts.
type MetadataTokenStore struct {
	repo metadata.Repository
}

func NewMetadataTokenStore(repo metadata.Repository) *MetadataTokenStore {
	return &MetadataTokenStore{repo: repo}
}

func (s *MetadataTokenStore) Token(ctx context.Context) (string, error) {
	b, err := s.repo.Get(ctx, SessionTokenKey)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *MetadataTokenStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}
	return s.repo.Set(ctx, SessionTokenKey, []byte(token))
}

func (s *MetadataTokenStore) ClearToken(ctx context.Context) error {
	return s.repo.Delete(ctx, SessionTokenKey)
}
