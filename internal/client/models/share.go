package models

import "github.com/dmitrijs2005/gophjournal/internal/client/ids"

// SharedEntry is a read-only view of one entry, addressed by its own opaque
// id rather than the entry id.
type SharedEntry struct {
	ID             string   `json:"id"`
	EntryID        ids.ID   `json:"entryId"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	JournalDate    string   `json:"journalDate"`
	AllowedEmails  []string `json:"allowedEmails"`
	AnyoneWithLink bool     `json:"anyoneWithLink"`
}

// NewShare is the body of POST /shared-entry/new.
type NewShare struct {
	EntryID        ids.ID   `json:"entryId"`
	Emails         []string `json:"emails" validate:"dive,required,email"`
	AnyoneWithLink bool     `json:"anyoneWithLink"`
}

// ShareUser is the body of the add-user and remove-user calls.
type ShareUser struct {
	Email string `json:"email" validate:"required,email"`
}
