// Package preferences persists the user's client-side settings in the local
// metadata store. Values expire after a fixed period and an expired or
// missing value reads as unset.
package preferences

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

const (
	// AutosaveKey is the metadata key of the autosave preference.
	AutosaveKey = "pref_autosave_enabled"
	DefaultTTL  = 365 * 24 * time.Hour
)

// Autosave is the tri-state autosave preference.
type Autosave int

const (
	Unset Autosave = iota
	Disabled
	Enabled
)

func (a Autosave) String() string {
	switch a {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "unset"
	}
}

type Store struct {
	repo metadata.Repository
	ttl  time.Duration
	now  func() time.Time
	log  logging.Logger
}

type Option func(*Store)

// WithTTL sets how long a stored choice stays valid. Non-positive values
// keep the default.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func NewStore(repo metadata.Repository, opts ...Option) *Store {
	s := &Store{repo: repo, ttl: DefaultTTL, now: time.Now, log: logging.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get reads the autosave preference. A stored value that cannot be parsed
// reads as Disabled.
func (s *Store) Get(ctx context.Context) (Autosave, error) {
	b, err := s.repo.Get(ctx, AutosaveKey)
	if err != nil {
		return Unset, fmt.Errorf("read autosave preference: %w", err)
	}
	if b == nil {
		return Unset, nil
	}

	v, err := strconv.ParseBool(string(b))
	if err != nil {
		s.log.Warn(ctx, "corrupt autosave preference, treating as disabled", "value", string(b))
		return Disabled, nil
	}
	if v {
		return Enabled, nil
	}
	return Disabled, nil
}

// Set stores the choice with a fresh expiry.
func (s *Store) Set(ctx context.Context, enabled bool) error {
	exp := s.now().Add(s.ttl)
	if err := s.repo.SetWithExpiry(ctx, AutosaveKey, []byte(strconv.FormatBool(enabled)), exp); err != nil {
		return fmt.Errorf("save autosave preference: %w", err)
	}
	return nil
}

// AutosaveEnabled reports whether autosave was explicitly turned on. Unset,
// corrupt and unreadable preferences all mean off.
func (s *Store) AutosaveEnabled(ctx context.Context) bool {
	v, err := s.Get(ctx)
	if err != nil {
		s.log.Warn(ctx, "autosave preference unavailable", "error", err)
		return false
	}
	return v == Enabled
}
