// Package store is the dev server's in-memory state. Every record belongs to
// one user and lookups never cross users.
package store

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type User struct {
	ID           ids.ID
	Username     string
	Email        string
	PasswordHash []byte
	Verified     bool
	TwoFactor    bool
	CreatedAt    time.Time
}

// Purpose scopes a mailed code.
type Purpose string

const (
	PurposeVerify    Purpose = "verify"
	PurposeTwoFactor Purpose = "2fa"
	PurposeReset     Purpose = "reset"
)

type codeKey struct {
	purpose Purpose
	email   string
}

type entryRecord struct {
	owner ids.ID
	entry models.Entry
}

type folderRecord struct {
	owner  ids.ID
	folder models.Folder
}

type shareRecord struct {
	owner ids.ID
	share models.SharedEntry
}

type mediaRecord struct {
	owner ids.ID
	media models.Media
	data  []byte
}

type Store struct {
	mu   sync.RWMutex
	next ids.ID
	now  func() time.Time

	users   map[ids.ID]*User
	byEmail map[string]ids.ID
	codes   map[codeKey]string
	entries map[ids.ID]*entryRecord
	folders map[ids.ID]*folderRecord
	shares  map[string]*shareRecord
	media   map[ids.ID]*mediaRecord
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store whose first identifier is idBase.
func New(idBase int64, opts ...Option) *Store {
	s := &Store{
		next:    ids.ID(idBase),
		now:     time.Now,
		users:   make(map[ids.ID]*User),
		byEmail: make(map[string]ids.ID),
		codes:   make(map[codeKey]string),
		entries: make(map[ids.ID]*entryRecord),
		folders: make(map[ids.ID]*folderRecord),
		shares:  make(map[string]*shareRecord),
		media:   make(map[ids.ID]*mediaRecord),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) newIDLocked() ids.ID {
	id := s.next
	s.next++
	return id
}

func normEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// ---- users ----

func (s *Store) CreateUser(username, email string, hash []byte, twoFactor bool) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = normEmail(email)
	if _, ok := s.byEmail[email]; ok {
		return nil, fmt.Errorf("email %s: %w", email, common.ErrConflict)
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return nil, fmt.Errorf("username %s: %w", username, common.ErrConflict)
		}
	}

	u := &User{
		ID:           s.newIDLocked(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		TwoFactor:    twoFactor,
		CreatedAt:    s.now(),
	}
	s.users[u.ID] = u
	s.byEmail[email] = u.ID
	c := *u
	return &c, nil
}

func (s *Store) UserByEmail(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[normEmail(email)]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *s.users[id]
	return &c, nil
}

func (s *Store) UserByID(id ids.ID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *Store) updateUser(email string, fn func(u *User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[normEmail(email)]
	if !ok {
		return common.ErrNotFound
	}
	fn(s.users[id])
	return nil
}

func (s *Store) MarkVerified(email string) error {
	return s.updateUser(email, func(u *User) { u.Verified = true })
}

func (s *Store) SetPasswordHash(email string, hash []byte) error {
	return s.updateUser(email, func(u *User) { u.PasswordHash = hash })
}

// SetCode replaces the pending code for purpose and email.
func (s *Store) SetCode(p Purpose, email, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[codeKey{p, normEmail(email)}] = code
}

// Code returns the pending code, if any.
func (s *Store) Code(p Purpose, email string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.codes[codeKey{p, normEmail(email)}]
	return c, ok
}

// UseCode consumes the pending code when it matches.
func (s *Store) UseCode(p Purpose, email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := codeKey{p, normEmail(email)}
	if want, ok := s.codes[k]; !ok || want != code {
		return false
	}
	delete(s.codes, k)
	return true
}

// ---- entries ----

func (s *Store) CreateEntry(owner ids.ID, in models.NewEntry) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.FolderID.Valid {
		if _, err := s.folderLocked(owner, in.FolderID.ID); err != nil {
			return models.Entry{}, err
		}
	}

	now := s.now()
	date := in.JournalDate
	if date == "" {
		date = now.Format(models.DateLayout)
	}
	e := models.Entry{
		ID:          s.newIDLocked(),
		UUID:        uuid.NewString(),
		Title:       in.Title,
		Content:     in.Content,
		WordCount:   in.WordCount,
		JournalDate: date,
		CreatedAt:   now,
		LastEdited:  now,
		Favorite:    in.Favorite,
		Tags:        models.DedupTags(in.Tags),
		FolderID:    in.FolderID,
	}
	s.entries[e.ID] = &entryRecord{owner: owner, entry: e}
	return *e.Clone(), nil
}

func (s *Store) entryLocked(owner, id ids.ID) (*entryRecord, error) {
	r, ok := s.entries[id]
	if !ok || r.owner != owner {
		return nil, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	return r, nil
}

func (s *Store) Entry(owner, id ids.ID) (models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.entryLocked(owner, id)
	if err != nil {
		return models.Entry{}, err
	}
	return *r.entry.Clone(), nil
}

func (s *Store) EntryByUUID(owner ids.ID, u string) (models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.entries {
		if r.owner == owner && r.entry.UUID == u {
			return *r.entry.Clone(), nil
		}
	}
	return models.Entry{}, fmt.Errorf("entry %s: %w", u, common.ErrNotFound)
}

// Entries returns the owner's entries accepted by keep, newest first.
func (s *Store) Entries(owner ids.ID, keep func(e *models.Entry) bool) []models.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Entry{}
	for _, r := range s.entries {
		if r.owner != owner || (keep != nil && !keep(&r.entry)) {
			continue
		}
		out = append(out, *r.entry.Clone())
	}
	slices.SortFunc(out, func(a, b models.Entry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}

// UpdateEntry applies fn to the stored entry and returns the result.
func (s *Store) UpdateEntry(owner, id ids.ID, fn func(e *models.Entry) error) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.entryLocked(owner, id)
	if err != nil {
		return models.Entry{}, err
	}
	e := r.entry.Clone()
	if err := fn(e); err != nil {
		return models.Entry{}, err
	}
	e.LastEdited = s.now()
	r.entry = *e
	return *e.Clone(), nil
}

// FileEntry sets the entry's folder. An invalid folder unfiles it.
func (s *Store) FileEntry(owner, id ids.ID, folder ids.NullID) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.entryLocked(owner, id)
	if err != nil {
		return models.Entry{}, err
	}
	if folder.Valid {
		if _, err := s.folderLocked(owner, folder.ID); err != nil {
			return models.Entry{}, err
		}
	}
	r.entry.FolderID = folder
	r.entry.LastEdited = s.now()
	return *r.entry.Clone(), nil
}

func (s *Store) DeleteEntry(owner, id ids.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.entryLocked(owner, id); err != nil {
		return err
	}
	delete(s.entries, id)
	for mid, m := range s.media {
		if m.media.EntryID == id {
			delete(s.media, mid)
		}
	}
	for sid, sh := range s.shares {
		if sh.share.EntryID == id {
			delete(s.shares, sid)
		}
	}
	return nil
}

// Tags lists the distinct tag names in use by owner, sorted.
func (s *Store) Tags(owner ids.ID) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []string{}
	for _, r := range s.entries {
		if r.owner != owner {
			continue
		}
		for _, t := range r.entry.Tags {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Streak counts consecutive journal days ending today or yesterday.
func (s *Store) Streak(owner ids.ID) int {
	days := make(map[string]struct{})
	for _, e := range s.Entries(owner, nil) {
		days[e.JournalDate] = struct{}{}
	}

	day := s.now()
	if _, ok := days[day.Format(models.DateLayout)]; !ok {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for {
		if _, ok := days[day.Format(models.DateLayout)]; !ok {
			return n
		}
		n++
		day = day.AddDate(0, 0, -1)
	}
}

// ---- folders ----

func (s *Store) folderLocked(owner, id ids.ID) (*folderRecord, error) {
	r, ok := s.folders[id]
	if !ok || r.owner != owner {
		return nil, fmt.Errorf("folder %s: %w", id, common.ErrNotFound)
	}
	return r, nil
}

func (s *Store) CreateFolder(owner ids.ID, name string) models.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := models.Folder{ID: s.newIDLocked(), UUID: uuid.NewString(), Name: name, CreatedAt: s.now()}
	s.folders[f.ID] = &folderRecord{owner: owner, folder: f}
	return f
}

func (s *Store) Folder(owner, id ids.ID) (models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.folderLocked(owner, id)
	if err != nil {
		return models.Folder{}, err
	}
	return r.folder, nil
}

func (s *Store) Folders(owner ids.ID) []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Folder{}
	for _, r := range s.folders {
		if r.owner == owner {
			out = append(out, r.folder)
		}
	}
	slices.SortFunc(out, func(a, b models.Folder) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (s *Store) RenameFolder(owner, id ids.ID, name string) (models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.folderLocked(owner, id)
	if err != nil {
		return models.Folder{}, err
	}
	r.folder.Name = name
	return r.folder, nil
}

// DeleteFolder removes the folder and unfiles its entries. It returns the
// ids of the entries that were unfiled.
func (s *Store) DeleteFolder(owner, id ids.ID) ([]ids.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.folderLocked(owner, id); err != nil {
		return nil, err
	}
	delete(s.folders, id)

	var unfiled []ids.ID
	now := s.now()
	for eid, r := range s.entries {
		if r.owner == owner && r.entry.FolderID == ids.Some(id) {
			r.entry.FolderID = ids.NullID{}
			r.entry.LastEdited = now
			unfiled = append(unfiled, eid)
		}
	}
	return unfiled, nil
}

// ---- sharing ----

func (s *Store) CreateShare(owner, entry ids.ID, emails []string, anyone bool) (models.SharedEntry, error) {
	id, err := gonanoid.New()
	if err != nil {
		return models.SharedEntry{}, fmt.Errorf("generate share id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.entryLocked(owner, entry)
	if err != nil {
		return models.SharedEntry{}, err
	}
	allowed := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = normEmail(e); !slices.Contains(allowed, e) {
			allowed = append(allowed, e)
		}
	}
	sh := models.SharedEntry{
		ID:             id,
		EntryID:        entry,
		AllowedEmails:  allowed,
		AnyoneWithLink: anyone,
	}
	s.shares[id] = &shareRecord{owner: owner, share: sh}
	return s.viewLocked(sh, &r.entry), nil
}

func (s *Store) viewLocked(sh models.SharedEntry, e *models.Entry) models.SharedEntry {
	sh.Title = e.Title
	sh.Content = e.Content
	sh.JournalDate = e.JournalDate
	sh.AllowedEmails = slices.Clone(sh.AllowedEmails)
	return sh
}

// Share returns the shared view if viewer may see it. viewer is nil for
// anonymous requests.
func (s *Store) Share(id string, viewer *User) (models.SharedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.shares[id]
	if !ok {
		return models.SharedEntry{}, fmt.Errorf("share %s: %w", id, common.ErrNotFound)
	}
	allowed := r.share.AnyoneWithLink
	if viewer != nil {
		allowed = allowed || viewer.ID == r.owner || slices.Contains(r.share.AllowedEmails, viewer.Email)
	}
	if !allowed {
		return models.SharedEntry{}, fmt.Errorf("share %s: %w", id, common.ErrNotFound)
	}
	e, ok := s.entries[r.share.EntryID]
	if !ok {
		return models.SharedEntry{}, fmt.Errorf("share %s: %w", id, common.ErrNotFound)
	}
	return s.viewLocked(r.share, &e.entry), nil
}

func (s *Store) UpdateShareUsers(owner ids.ID, id, email string, add bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.shares[id]
	if !ok || r.owner != owner {
		return fmt.Errorf("share %s: %w", id, common.ErrNotFound)
	}
	email = normEmail(email)
	r.share.AllowedEmails = slices.DeleteFunc(r.share.AllowedEmails, func(e string) bool { return e == email })
	if add {
		r.share.AllowedEmails = append(r.share.AllowedEmails, email)
	}
	return nil
}

// ---- media ----

func (s *Store) AddMedia(owner, entry ids.ID, name, contentType string, data []byte) (models.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.entryLocked(owner, entry); err != nil {
		return models.Media{}, err
	}
	m := models.Media{
		ID:          s.newIDLocked(),
		EntryID:     entry,
		FileName:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   s.now(),
	}
	s.media[m.ID] = &mediaRecord{owner: owner, media: m, data: slices.Clone(data)}
	return m, nil
}

func (s *Store) Media(owner, entry ids.ID) ([]models.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.entryLocked(owner, entry); err != nil {
		return nil, err
	}
	out := []models.Media{}
	for _, m := range s.media {
		if m.media.EntryID == entry {
			out = append(out, m.media)
		}
	}
	slices.SortFunc(out, func(a, b models.Media) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// MediaData returns the stored bytes of one media item.
func (s *Store) MediaData(owner, id ids.ID) (models.Media, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.media[id]
	if !ok || m.owner != owner {
		return models.Media{}, nil, fmt.Errorf("media %s: %w", id, common.ErrNotFound)
	}
	return m.media, m.data, nil
}
