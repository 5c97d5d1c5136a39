package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/matrixdiff/internal/core"
)

// selectionRequest is the body of PUT /selection. A missing auto keeps the
// current flag.
type selectionRequest struct {
	Selected []string `json:"selected"`
	Auto     *bool    `json:"auto"`
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Selection())
}

func (s *Server) handlePutSelection(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req selectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	auto := sess.Selection().Auto
	if req.Auto != nil {
		auto = *req.Auto
	}
	s.writeSelection(w, r, func() (core.Selection, error) {
		return sess.SetSelection(r.Context(), req.Selected, auto)
	})
}

func (s *Server) handleToggleFolder(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	folder := chi.URLParam(r, "folder")
	s.writeSelection(w, r, func() (core.Selection, error) {
		return sess.Toggle(r.Context(), folder)
	})
}

func (s *Server) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.writeSelection(w, r, func() (core.Selection, error) {
		return sess.SelectAll(r.Context())
	})
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.writeSelection(w, r, func() (core.Selection, error) {
		return sess.ClearAll(r.Context())
	})
}

// writeSelection runs a selection change and writes the new selection. The
// change is kept in the session even when saving it fails; the store error
// is still reported.
func (s *Server) writeSelection(w http.ResponseWriter, r *http.Request, change func() (core.Selection, error)) {
	sel, err := change()
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}
