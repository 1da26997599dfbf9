package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/cache"
	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShareAPI struct {
	shared map[string]*models.SharedEntry
	adds   []string
	drops  []string
	gets   int
}

func (f *fakeShareAPI) ShareEntry(_ context.Context, s models.NewShare) (*models.SharedEntry, error) {
	se := &models.SharedEntry{ID: "sh1", EntryID: s.EntryID, Content: `a\nb`, AllowedEmails: s.Emails, AnyoneWithLink: s.AnyoneWithLink}
	f.shared[se.ID] = se
	c := *se
	return &c, nil
}

func (f *fakeShareAPI) GetSharedEntry(_ context.Context, id string) (*models.SharedEntry, error) {
	f.gets++
	se, ok := f.shared[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *se
	return &c, nil
}

func (f *fakeShareAPI) AddShareUser(_ context.Context, id string, u models.ShareUser) error {
	f.adds = append(f.adds, u.Email)
	return nil
}

func (f *fakeShareAPI) RemoveShareUser(_ context.Context, id string, u models.ShareUser) error {
	f.drops = append(f.drops, u.Email)
	return nil
}

func TestShareService(t *testing.T) {
	api := &fakeShareAPI{shared: map[string]*models.SharedEntry{}}
	svc := NewShareService(api, cache.New())
	ctx := context.Background()

	_, err := svc.Share(ctx, entryID, []string{"nope"}, false)
	require.ErrorIs(t, err, common.ErrValidation)

	se, err := svc.Share(ctx, entryID, []string{" friend@example.com ", ""}, true)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", se.Content)
	assert.Equal(t, []string{"friend@example.com"}, se.AllowedEmails)

	got, err := svc.Get(ctx, se.ID)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got.Content)
	_, err = svc.Get(ctx, se.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, api.gets)

	require.NoError(t, svc.AddUser(ctx, se.ID, "other@example.com"))
	require.ErrorIs(t, svc.AddUser(ctx, se.ID, "bad"), common.ErrValidation)
	require.NoError(t, svc.RemoveUser(ctx, se.ID, "other@example.com"))
	assert.Equal(t, []string{"other@example.com"}, api.adds)
	assert.Equal(t, []string{"other@example.com"}, api.drops)

	_, err = svc.Get(ctx, se.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, api.gets, "membership change refreshes the share")

	_, err = svc.Get(ctx, "")
	require.ErrorIs(t, err, common.ErrValidation)
}

type fakeMediaAPI struct {
	uploads []models.Upload
	lists   int
}

func (f *fakeMediaAPI) ListMedia(context.Context, ids.ID) ([]models.Media, error) {
	f.lists++
	out := make([]models.Media, len(f.uploads))
	return out, nil
}

func (f *fakeMediaAPI) UploadMedia(_ context.Context, _ ids.ID, u models.Upload) (*models.Media, error) {
	f.uploads = append(f.uploads, u)
	return &models.Media{}, nil
}

func TestMediaService(t *testing.T) {
	api := &fakeMediaAPI{}
	svc := NewMediaService(api, cache.New())
	ctx := context.Background()

	m, err := svc.List(ctx, entryID)
	require.NoError(t, err)
	require.Empty(t, m)

	_, err = svc.Upload(ctx, entryID, models.Upload{FileName: "a.png"})
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = svc.Upload(ctx, entryID, models.Upload{Data: []byte("x")})
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = svc.Upload(ctx, entryID, models.Upload{FileName: "big", Data: make([]byte, MaxUploadSize+1)})
	require.ErrorIs(t, err, common.ErrValidation)

	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))
	_, err = svc.UploadFile(ctx, entryID, path)
	require.NoError(t, err)
	require.Len(t, api.uploads, 1)
	assert.Equal(t, "note.txt", api.uploads[0].FileName)

	m, err = svc.List(ctx, entryID)
	require.NoError(t, err)
	assert.Len(t, m, 1)
	assert.Equal(t, 2, api.lists)

	_, err = svc.UploadFile(ctx, entryID, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

type fakeAccountAPI struct {
	prompts int
	mes     int
}

func (f *fakeAccountAPI) DailyPrompt(context.Context) (*models.DailyPrompt, error) {
	f.prompts++
	return &models.DailyPrompt{Prompt: "What surprised you today?"}, nil
}

func (f *fakeAccountAPI) Me(context.Context) (*models.User, error) {
	f.mes++
	return &models.User{Username: "writer", Streak: 3}, nil
}

func TestAccountServices(t *testing.T) {
	api := &fakeAccountAPI{}
	c := cache.New()
	ctx := context.Background()

	prompts := NewPromptService(api, c).(*accountService)
	day := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	prompts.now = func() time.Time { return day }

	for range 2 {
		p, err := prompts.Daily(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, p.Prompt)
	}
	assert.Equal(t, 1, api.prompts)

	day = day.Add(24 * time.Hour)
	_, err := prompts.Daily(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.prompts, "a new day fetches a new prompt")

	users := NewUserService(api, c)
	u, err := users.Me(ctx)
	require.NoError(t, err)
	u.Username = "changed"
	u, err = users.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "writer", u.Username)
	assert.Equal(t, 1, api.mes)
}

func TestTagService_Vocabulary(t *testing.T) {
	api := newFakeEntryAPI(seedEntry())
	c := cache.New()
	tags := NewTagService(api, c)
	entries := NewEntryService(api, c, nil)
	ctx := context.Background()

	v, err := tags.Vocabulary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, v)

	require.NoError(t, entries.AddTags(ctx, entryID, "home"))
	v, err = tags.Vocabulary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "home"}, v)
}
