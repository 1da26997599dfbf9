package devserver

import (
	"net/http"
	"slices"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

// entryUpdate is the body of PUT /entry/{id}/update. The word count sent by
// clients is ignored and recomputed from the content.
type entryUpdate struct {
	Title     *string `json:"title" validate:"omitempty,max=200"`
	Content   *string `json:"content"`
	WordCount *int    `json:"wordCount"`
	Favorite  *bool   `json:"favorite"`
}

func countWords(escaped string) int {
	return models.WordCount(models.UnescapeContent(escaped))
}

func (s *Server) reindex(r *http.Request, owner ids.ID, e models.Entry) {
	if err := s.index.Put(owner, e); err != nil {
		s.log.Warn(r.Context(), "reindex failed", "entry_id", e.ID.String(), "error", err)
	}
}

func (s *Server) owner(r *http.Request) ids.ID {
	uid, _ := userIDFrom(r.Context())
	return uid
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Entries(s.owner(r), nil))
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req models.NewEntry
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.WordCount = countWords(req.Content)

	owner := s.owner(r)
	e, err := s.store.CreateEntry(owner, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.reindex(r, owner, e)
	writeJSON(w, http.StatusCreated, models.CreatedEntry{ID: e.ID, UUID: e.UUID})
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.store.Entry(s.owner(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) getEntryByUUID(w http.ResponseWriter, r *http.Request) {
	u, err := pathParam(r, "uuid")
	if err != nil {
		s.writeError(w, r, badRequest("uuid: %v", err))
		return
	}
	e, err := s.store.EntryByUUID(s.owner(r), u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) listEntriesByDate(w http.ResponseWriter, r *http.Request) {
	date, err := pathParam(r, "date")
	if err == nil {
		_, err = time.Parse(models.DateLayout, date)
	}
	if err != nil {
		s.writeError(w, r, badRequest("date must be in %s format", models.DateLayout))
		return
	}
	writeJSON(w, http.StatusOK, s.store.Entries(s.owner(r), func(e *models.Entry) bool {
		return e.JournalDate == date
	}))
}

func (s *Server) listEntriesByTimeRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		s.writeError(w, r, badRequest("from: %v", err))
		return
	}
	to, err := time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		s.writeError(w, r, badRequest("to: %v", err))
		return
	}
	if to.Before(from) {
		s.writeError(w, r, badRequest("to must not be before from"))
		return
	}
	writeJSON(w, http.StatusOK, s.store.Entries(s.owner(r), func(e *models.Entry) bool {
		return !e.CreatedAt.Before(from) && !e.CreatedAt.After(to)
	}))
}

// listEntriesByTags returns entries carrying any of the requested tags.
func (s *Server) listEntriesByTags(w http.ResponseWriter, r *http.Request) {
	var req models.TagQuery
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Entries(s.owner(r), func(e *models.Entry) bool {
		return slices.ContainsFunc(req.Tags, e.HasTag)
	}))
}

func (s *Server) listEntriesByFolder(w http.ResponseWriter, r *http.Request) {
	fid, err := idParam(r, "folderID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	owner := s.owner(r)
	if _, err := s.store.Folder(owner, fid); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Entries(owner, func(e *models.Entry) bool {
		return e.FolderID == ids.Some(fid)
	}))
}

func (s *Server) searchEntries(w http.ResponseWriter, r *http.Request) {
	owner := s.owner(r)
	hits, err := s.index.Search(r.Context(), owner, r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]models.Entry, 0, len(hits))
	for _, id := range hits {
		// The index may briefly lag a delete.
		if e, err := s.store.Entry(owner, id); err == nil {
			out = append(out, e)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req entryUpdate
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	owner := s.owner(r)
	e, err := s.store.UpdateEntry(owner, id, func(e *models.Entry) error {
		if req.Title != nil {
			e.Title = *req.Title
		}
		if req.Content != nil {
			e.Content = *req.Content
			e.WordCount = countWords(*req.Content)
		}
		if req.Favorite != nil {
			e.Favorite = *req.Favorite
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.reindex(r, owner, e)
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) addTags(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req models.TagNames
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	owner := s.owner(r)
	e, err := s.store.UpdateEntry(owner, id, func(e *models.Entry) error {
		e.Tags = models.DedupTags(append(e.Tags, req.Tags...))
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.reindex(r, owner, e)
	writeJSON(w, http.StatusOK, e)
}

// removeTag is idempotent: removing a tag the entry does not carry succeeds.
func (s *Server) removeTag(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tag, err := pathParam(r, "tag")
	if err != nil || tag == "" {
		s.writeError(w, r, badRequest("malformed tag"))
		return
	}

	owner := s.owner(r)
	e, err := s.store.UpdateEntry(owner, id, func(e *models.Entry) error {
		e.Tags = slices.DeleteFunc(e.Tags, func(t string) bool { return t == tag })
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.reindex(r, owner, e)
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) addToFolder(w http.ResponseWriter, r *http.Request) {
	s.fileEntry(w, r, true)
}

func (s *Server) removeFromFolder(w http.ResponseWriter, r *http.Request) {
	s.fileEntry(w, r, false)
}

func (s *Server) fileEntry(w http.ResponseWriter, r *http.Request, into bool) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var folder ids.NullID
	if into {
		fid, err := idParam(r, "folderID")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		folder = ids.Some(fid)
	}

	e, err := s.store.FileEntry(s.owner(r), id, folder)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteEntry(s.owner(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.index.Delete(id); err != nil {
		s.log.Warn(r.Context(), "unindex failed", "entry_id", id.String(), "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Tags(s.owner(r)))
}
