package client

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

type AuthAPI interface {
	Login(ctx context.Context, cred models.Credentials) (*models.LoginResult, error)
	VerifyTwoFactor(ctx context.Context, code models.EmailCode) (*models.LoginResult, error)
	Signup(ctx context.Context, s models.Signup) error
	Verify(ctx context.Context, code models.EmailCode) error
	ResendVerification(ctx context.Context, req models.EmailOnly) error
	ForgotPassword(ctx context.Context, req models.EmailOnly) error
	ResetPassword(ctx context.Context, req models.PasswordReset) error
}

// EntryAPI covers /entry and /tags. Entry content crosses this interface in
// its escaped transport form.
type EntryAPI interface {
	ListEntries(ctx context.Context) ([]models.Entry, error)
	CreateEntry(ctx context.Context, e models.NewEntry) (*models.CreatedEntry, error)
	GetEntry(ctx context.Context, id ids.ID) (*models.Entry, error)
	GetEntryByUUID(ctx context.Context, uuid string) (*models.Entry, error)
	ListEntriesByDate(ctx context.Context, date string) ([]models.Entry, error)
	ListEntriesByTimeRange(ctx context.Context, r models.TimeRange) ([]models.Entry, error)
	ListEntriesByTags(ctx context.Context, tags []string) ([]models.Entry, error)
	ListEntriesByFolder(ctx context.Context, folder ids.ID) ([]models.Entry, error)
	SearchEntries(ctx context.Context, query string) ([]models.Entry, error)
	// UpdateEntry sends a partial body and returns the server's view of the
	// entry with identifier fields decoded.
	UpdateEntry(ctx context.Context, id ids.ID, fields map[string]any) (map[string]any, error)
	AddTags(ctx context.Context, id ids.ID, tags []string) error
	RemoveTag(ctx context.Context, id ids.ID, tag string) error
	AddToFolder(ctx context.Context, id ids.ID, folder ids.ID) error
	RemoveFromFolder(ctx context.Context, id ids.ID) error
	DeleteEntry(ctx context.Context, id ids.ID) error
	ListTags(ctx context.Context) ([]string, error)
}

type FolderAPI interface {
	ListFolders(ctx context.Context) ([]models.Folder, error)
	CreateFolder(ctx context.Context, f models.NewFolder) (*models.Folder, error)
	GetFolder(ctx context.Context, id ids.ID) (*models.Folder, error)
	RenameFolder(ctx context.Context, id ids.ID, name string) error
	DeleteFolder(ctx context.Context, id ids.ID) error
}

type ShareAPI interface {
	ShareEntry(ctx context.Context, s models.NewShare) (*models.SharedEntry, error)
	GetSharedEntry(ctx context.Context, id string) (*models.SharedEntry, error)
	AddShareUser(ctx context.Context, id string, u models.ShareUser) error
	RemoveShareUser(ctx context.Context, id string, u models.ShareUser) error
}

type MediaAPI interface {
	ListMedia(ctx context.Context, entry ids.ID) ([]models.Media, error)
	UploadMedia(ctx context.Context, entry ids.ID, u models.Upload) (*models.Media, error)
}

type AccountAPI interface {
	DailyPrompt(ctx context.Context) (*models.DailyPrompt, error)
	Me(ctx context.Context) (*models.User, error)
}

// Client is the whole remote API.
type Client interface {
	AuthAPI
	EntryAPI
	FolderAPI
	ShareAPI
	MediaAPI
	AccountAPI
}
