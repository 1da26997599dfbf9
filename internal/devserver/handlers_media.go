package devserver

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/dmitrijs2005/gophjournal/internal/client/client"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/gabriel-vasile/mimetype"
)

const (
	maxUploadSize = 20 << 20
	// multipart framing on top of the file itself
	uploadOverhead = 1 << 20
)

var errTooLarge = &requestError{status: http.StatusRequestEntityTooLarge, msg: "file too large"}

func (s *Server) mediaURL(m *models.Media) {
	m.URL = path.Join(s.cfg.BasePath, "media", m.ID.String())
}

func (s *Server) listMedia(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.store.Media(s.owner(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for i := range list {
		s.mediaURL(&list[i])
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) uploadMedia(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+uploadOverhead)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, errTooLarge)
			return
		}
		s.writeError(w, r, badRequest("parse upload: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(client.MediaFormField)
	if err != nil {
		s.writeError(w, r, badRequest("missing %q part", client.MediaFormField))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	switch {
	case len(data) > maxUploadSize:
		s.writeError(w, r, errTooLarge)
		return
	case len(data) == 0:
		s.writeError(w, r, badRequest("empty file"))
		return
	case header.Filename == "":
		s.writeError(w, r, badRequest("missing file name"))
		return
	}

	ct := header.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = mimetype.Detect(data).String()
	}

	m, err := s.store.AddMedia(s.owner(r), id, path.Base(header.Filename), ct, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mediaURL(&m)
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) downloadMedia(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m, data, err := s.store.MediaData(s.owner(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", m.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
