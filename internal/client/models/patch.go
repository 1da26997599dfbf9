package models

import "slices"

// FieldGroup is a set of entry attributes written together. Writes within
// one group are ordered; different groups are independent.
type FieldGroup string

const (
	GroupContent  FieldGroup = "content"
	GroupTitle    FieldGroup = "title"
	GroupFavorite FieldGroup = "favorite"
	GroupFolder   FieldGroup = "folder"
	GroupTags     FieldGroup = "tags"
)

// Wire field names per group.
var groupFields = map[FieldGroup][]string{
	GroupContent:  {"content", "wordCount"},
	GroupTitle:    {"title"},
	GroupFavorite: {"favorite"},
	GroupFolder:   {"folderId"},
	GroupTags:     {"tags"},
}

// Fields returns the wire field names belonging to g.
func (g FieldGroup) Fields() []string {
	return groupFields[g]
}

// EntryPatch is a partial update for PUT /entry/{id}/update. Nil fields are
// left untouched. Word count is never set by callers; it is derived from
// Content when the patch is sent.
type EntryPatch struct {
	Title    *string
	Content  *string
	Favorite *bool
}

// Groups lists the field groups touched by p in a stable order.
func (p EntryPatch) Groups() []FieldGroup {
	var gs []FieldGroup
	if p.Content != nil {
		gs = append(gs, GroupContent)
	}
	if p.Favorite != nil {
		gs = append(gs, GroupFavorite)
	}
	if p.Title != nil {
		gs = append(gs, GroupTitle)
	}
	return gs
}

// Empty reports whether p changes nothing.
func (p EntryPatch) Empty() bool {
	return len(p.Groups()) == 0
}

// Only returns a copy of p restricted to the given groups.
func (p EntryPatch) Only(groups []FieldGroup) EntryPatch {
	var out EntryPatch
	if slices.Contains(groups, GroupContent) {
		out.Content = p.Content
	}
	if slices.Contains(groups, GroupTitle) {
		out.Title = p.Title
	}
	if slices.Contains(groups, GroupFavorite) {
		out.Favorite = p.Favorite
	}
	return out
}

// Payload renders p as the request body. Content is escaped for transport
// and its word count recomputed from the unescaped text.
func (p EntryPatch) Payload() map[string]any {
	body := make(map[string]any, 4)
	if p.Content != nil {
		body["content"] = EscapeContent(*p.Content)
		body["wordCount"] = WordCount(*p.Content)
	}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Favorite != nil {
		body["favorite"] = *p.Favorite
	}
	return body
}

// Apply copies the confirmed fields of p onto e. Only the given groups are
// written; everything else on e is preserved.
func (p EntryPatch) Apply(e *Entry, groups []FieldGroup) {
	for _, g := range groups {
		switch g {
		case GroupContent:
			if p.Content != nil {
				e.Content = *p.Content
				e.WordCount = WordCount(*p.Content)
			}
		case GroupTitle:
			if p.Title != nil {
				e.Title = *p.Title
			}
		case GroupFavorite:
			if p.Favorite != nil {
				e.Favorite = *p.Favorite
			}
		}
	}
}
