package models

import (
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
)

// Media is a file attached to an entry.
type Media struct {
	ID          ids.ID    `json:"id"`
	EntryID     ids.ID    `json:"entryId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Upload describes a file to attach with POST /entry/{id}/media/new.
// ContentType is sniffed from the data when empty.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}
