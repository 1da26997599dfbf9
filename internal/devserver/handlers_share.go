package devserver

import (
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/devserver/store"
)

func (s *Server) createShare(w http.ResponseWriter, r *http.Request) {
	var req models.NewShare
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sh, err := s.store.CreateShare(s.owner(r), req.EntryID, req.Emails, req.AnyoneWithLink)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sh)
}

// getShare serves anonymous readers when the share is open to anyone with
// the link. Shares a viewer may not see look missing.
func (s *Server) getShare(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("id: %v", err))
		return
	}

	var viewer *store.User
	if uid, ok := userIDFrom(r.Context()); ok {
		if viewer, err = s.store.UserByID(uid); err != nil {
			viewer = nil
		}
	}

	sh, err := s.store.Share(id, viewer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sh)
}

func (s *Server) addShareUser(w http.ResponseWriter, r *http.Request) {
	s.updateShareUsers(w, r, true)
}

func (s *Server) removeShareUser(w http.ResponseWriter, r *http.Request) {
	s.updateShareUsers(w, r, false)
}

func (s *Server) updateShareUsers(w http.ResponseWriter, r *http.Request, add bool) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("id: %v", err))
		return
	}
	var req models.ShareUser
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdateShareUsers(s.owner(r), id, req.Email, add); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, "share updated")
}
