// Package models defines the journal resources exchanged with the API:
// entries, folders, shared entries, media, users and the auth payloads.
//
// Identifiers are ids.ID values and travel as decimal strings. Entry content
// is held unescaped in memory; EscapeContent and UnescapeContent convert it
// to and from the transport form.
package models
