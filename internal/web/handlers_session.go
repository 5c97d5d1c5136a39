package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/matrixdiff/internal/core"
	"github.com/JonMunkholm/matrixdiff/internal/logging"
)

// hierarchyResponse describes the loaded master. Folders holds only the
// selected folders; the counts cover the whole hierarchy.
type hierarchyResponse struct {
	MatrixOID string            `json:"matrixOID"`
	Sheet     string            `json:"sheet"`
	Folders   []core.Folder     `json:"folders"`
	Counts    hierarchyCounts   `json:"counts"`
	Matrices  []core.MatrixInfo `json:"matrices,omitempty"`
	Selection core.Selection    `json:"selection"`
}

type hierarchyCounts struct {
	Folders  int `json:"folders"`
	Forms    int `json:"forms"`
	Selected int `json:"selected"`
}

func newHierarchyResponse(sess *core.Session, h *core.Hierarchy) hierarchyResponse {
	sel := sess.Selection()
	return hierarchyResponse{
		MatrixOID: h.MatrixOID,
		Sheet:     h.SheetName,
		Folders:   core.VisibleFolders(h, sel),
		Counts: hierarchyCounts{
			Folders:  len(h.Folders),
			Forms:    h.FormCount(),
			Selected: len(sel.Selected),
		},
		Selection: sel,
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.service.NewSession()
	logging.ForSession(r.Context(), sess.ID).Info("session created")
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sess.ID})
}

func (s *Server) handleSessionSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		SessionID string `json:"session_id"`
		core.Summary
	}{SessionID: sess.ID, Summary: sess.Summary()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.service.CloseSession(id) {
		respondError(w, r, core.ErrSessionNotFound)
		return
	}
	logging.ForSession(r.Context(), id).Info("session closed")
	w.WriteHeader(http.StatusNoContent)
}

// handleLoadMaster replaces the session's master with the uploaded ALS.
func (s *Server) handleLoadMaster(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.parseMultipart(w, r); err != nil {
		respondError(w, r, err)
		return
	}
	wb, err := s.readWorkbook(r, fieldMaster)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h, err := sess.LoadMaster(r.Context(), wb, s.service.HierarchyOptions(r.FormValue("matrix_oid")))
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := newHierarchyResponse(sess, h)
	resp.Matrices = sess.Matrices()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSessionMatrices(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if sess.Hierarchy() == nil {
		respondError(w, r, core.ErrNoHierarchy)
		return
	}
	matrices := sess.Matrices()
	writeJSON(w, http.StatusOK, matricesResponse{
		Matrices: matrices,
		Default:  core.DefaultMatrix(matrices, s.service.PreferredMatrix()),
	})
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h := sess.Hierarchy()
	if h == nil {
		respondError(w, r, core.ErrNoHierarchy)
		return
	}
	writeJSON(w, http.StatusOK, newHierarchyResponse(sess, h))
}

// handleCompare diffs SSD input against the session's master. A rejected
// input leaves the previous diff in place.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	multipart := isMultipart(r)
	if multipart {
		if err := s.parseMultipart(w, r); err != nil {
			respondError(w, r, err)
			return
		}
	}
	in, err := s.readCandidate(w, r, multipart)
	if err != nil {
		respondError(w, r, err)
		return
	}
	c, err := in.parse()
	if err != nil {
		respondError(w, r, err)
		return
	}

	d, err := sess.Compare(r.Context(), c)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDiffResponse(d, c.Source))
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDiffResponse(sess.Diff(), sess.Summary().Candidate))
}

// handlePreview pages through the first lines of the last candidate.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Preview(parseIntParam(r, "page", 1)))
}

func (s *Server) handleExportDiff(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	report, err := sess.ExportDiff()
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeCSV(w, core.DiffReportFileName, report)
}

func (s *Server) handleExportHierarchy(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	report, err := sess.ExportHierarchy()
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeCSV(w, core.HierarchyReportFileName, report)
}
