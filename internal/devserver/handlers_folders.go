package devserver

import (
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

func (s *Server) listFolders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Folders(s.owner(r)))
}

func (s *Server) createFolder(w http.ResponseWriter, r *http.Request) {
	var req models.NewFolder
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.store.CreateFolder(s.owner(r), req.Name))
}

func (s *Server) getFolder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.store.Folder(s.owner(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) renameFolder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name, err := pathParam(r, "name")
	if err != nil {
		s.writeError(w, r, badRequest("name: %v", err))
		return
	}
	if err := s.validate.Var("name", name, "required,max=100"); err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.store.RenameFolder(s.owner(r), id, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// deleteFolder keeps the folder's entries; they become unfiled.
func (s *Server) deleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	unfiled, err := s.store.DeleteFolder(s.owner(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Debug(r.Context(), "folder deleted", "folder_id", id.String(), "unfiled", len(unfiled))
	w.WriteHeader(http.StatusNoContent)
}
