package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/config"
	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/client/services"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

var errNotFoundForTest = fmt.Errorf("entry: %w", common.ErrNotFound)

type fakeAuth struct {
	services.AuthService

	signup      models.Signup
	verified    []string
	resent      []string
	loginEmail  string
	loginPass   string
	loginResult services.LoginOutcome
	loginErr    error
	twoFACode   string
	forgot      string
	resetCode   string
	resetPass   string
	loggedOut   bool
	err         error
}

func (f *fakeAuth) Signup(_ context.Context, s models.Signup) error {
	f.signup = s
	return f.err
}
func (f *fakeAuth) Verify(_ context.Context, email, code string) error {
	f.verified = append(f.verified, email+":"+code)
	return f.err
}
func (f *fakeAuth) ResendVerification(_ context.Context, email string) error {
	f.resent = append(f.resent, email)
	return f.err
}
func (f *fakeAuth) Login(_ context.Context, email, password string) (services.LoginOutcome, error) {
	f.loginEmail, f.loginPass = email, password
	return f.loginResult, f.loginErr
}
func (f *fakeAuth) VerifyTwoFactor(_ context.Context, _ string, code string) error {
	f.twoFACode = code
	return f.err
}
func (f *fakeAuth) ForgotPassword(_ context.Context, email string) error {
	f.forgot = email
	return f.err
}
func (f *fakeAuth) RememberResetCode(_ context.Context, code string) error {
	f.resetCode = code
	return f.err
}
func (f *fakeAuth) ResetPassword(_ context.Context, _ string, pw string) error {
	f.resetPass = pw
	return f.err
}
func (f *fakeAuth) Logout(context.Context) error {
	f.loggedOut = true
	return f.err
}

// fakeEntries serves a fixed set of entries and records writes.
type fakeEntries struct {
	services.EntryService

	mu       sync.Mutex
	entries  map[ids.ID]*models.Entry
	created  []models.NewEntry
	patches  []models.EntryPatch
	saved    []string
	saveErr  error
	deleted  []ids.ID
	tagsSeen []string
	moved    []ids.NullID
	calls    []string
	listErr  error
}

func newFakeEntries(entries ...models.Entry) *fakeEntries {
	f := &fakeEntries{entries: map[ids.ID]*models.Entry{}}
	for i := range entries {
		e := entries[i]
		f.entries[e.ID] = &e
	}
	return f
}

func (f *fakeEntries) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeEntries) Get(_ context.Context, id ids.ID) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return nil, errNotFoundForTest
	}
	return e.Clone(), nil
}

func (f *fakeEntries) GetByUUID(_ context.Context, uuid string) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.UUID == uuid {
			return e.Clone(), nil
		}
	}
	return nil, errNotFoundForTest
}

func (f *fakeEntries) all() []models.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Entry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, *e)
	}
	return out
}

func (f *fakeEntries) List(context.Context) ([]models.Entry, error) {
	f.record("list")
	return f.all(), f.listErr
}
func (f *fakeEntries) ListByDate(_ context.Context, date string) ([]models.Entry, error) {
	f.record("date " + date)
	return f.all(), f.listErr
}
func (f *fakeEntries) ListByTimeRange(_ context.Context, r models.TimeRange) ([]models.Entry, error) {
	f.record("range " + r.From.Format(time.RFC3339) + " " + r.To.Format(time.RFC3339))
	return f.all(), f.listErr
}
func (f *fakeEntries) ListByTags(_ context.Context, tags ...string) ([]models.Entry, error) {
	f.record("tags " + strings.Join(tags, "|"))
	return f.all(), f.listErr
}
func (f *fakeEntries) ListByFolder(_ context.Context, folder ids.ID) ([]models.Entry, error) {
	f.record("folder " + folder.String())
	return f.all(), f.listErr
}
func (f *fakeEntries) Search(_ context.Context, q string) ([]models.Entry, error) {
	f.record("search " + q)
	return f.all(), f.listErr
}

func (f *fakeEntries) Create(_ context.Context, e models.NewEntry) (*models.CreatedEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, e)
	return &models.CreatedEntry{ID: ids.ID(100 + len(f.created)), UUID: "u"}, nil
}

func (f *fakeEntries) Update(_ context.Context, id ids.ID, p models.EntryPatch) (*services.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, p)
	if e, ok := f.entries[id]; ok {
		p.Apply(e, p.Groups())
	}
	return &services.UpdateResult{Applied: p.Groups()}, nil
}

func (f *fakeEntries) SaveContent(_ context.Context, id ids.ID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, content)
	if e, ok := f.entries[id]; ok {
		e.Content = content
	}
	return nil
}

func (f *fakeEntries) Saved() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.saved...)
}

func (f *fakeEntries) Delete(_ context.Context, id ids.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeEntries) AddTags(_ context.Context, _ ids.ID, names ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagsSeen = append(f.tagsSeen, names...)
	return nil
}

func (f *fakeEntries) RemoveTag(_ context.Context, _ ids.ID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagsSeen = append(f.tagsSeen, "-"+name)
	return nil
}

func (f *fakeEntries) MoveToFolder(_ context.Context, _ ids.ID, folder *ids.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moved = append(f.moved, ids.FromPtr(folder))
	return nil
}

type fakePrefs struct {
	mu  sync.Mutex
	on  bool
	set []bool
}

func (p *fakePrefs) AutosaveEnabled(context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

func (p *fakePrefs) Set(_ context.Context, on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.on = on
	p.set = append(p.set, on)
	return nil
}

type fakeTags struct {
	tags []string
	err  error
}

func (f *fakeTags) Vocabulary(context.Context) ([]string, error) { return f.tags, f.err }

type fakeUsers struct {
	user *models.User
	err  error
}

func (f *fakeUsers) Me(context.Context) (*models.User, error) { return f.user, f.err }

type fakePrompts struct {
	prompt *models.DailyPrompt
	err    error
}

func (f *fakePrompts) Daily(context.Context) (*models.DailyPrompt, error) { return f.prompt, f.err }

// newTestApp returns an App reading input and writing into the returned
// buffer.
func newTestApp(input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		config:        &config.Config{AutosaveDebounce: time.Hour},
		log:           logging.Nop(),
		authService:   &fakeAuth{},
		entryService:  newFakeEntries(),
		tagService:    &fakeTags{},
		userService:   &fakeUsers{user: &models.User{Username: "alice"}},
		promptService: &fakePrompts{prompt: &models.DailyPrompt{Prompt: "Write"}},
		prefs:         &fakePrefs{},
		session:       &session{},
		reader:        bufio.NewReader(strings.NewReader(input)),
		out:           out,
	}, out
}
