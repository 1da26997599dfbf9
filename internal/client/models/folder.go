package models

import (
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
)

// Folder is a named container. Entries refer to it through FolderID; a
// folder does not own its entries.
type Folder struct {
	ID        ids.ID    `json:"id"`
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewFolder is the body of POST /folder.
type NewFolder struct {
	Name string `json:"name" validate:"required,max=100"`
}
