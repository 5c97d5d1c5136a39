package web

import (
	"net/http"

	"github.com/JonMunkholm/matrixdiff/internal/core"
)

// diffCounts summarizes one diff for clients that only show totals.
type diffCounts struct {
	MissingFolders int `json:"missingFolders"`
	MissingPairs   int `json:"missingPairs"`
	ExtraFolders   int `json:"extraFolders"`
	ExtraPairs     int `json:"extraPairs"`
}

// diffResponse carries both key spellings older clients read.
type diffResponse struct {
	MissingInDB      core.FolderFormMap `json:"missing_in_db"`
	ExtraInDB        core.FolderFormMap `json:"extra_in_db"`
	MissingInDBCamel core.FolderFormMap `json:"missingInDB"`
	ExtraInDBCamel   core.FolderFormMap `json:"extraInDB"`
	Counts           diffCounts         `json:"counts"`
	Source           string             `json:"source,omitempty"`
}

func newDiffResponse(d core.DiffResult, source string) diffResponse {
	return diffResponse{
		MissingInDB:      d.MissingInTarget,
		ExtraInDB:        d.ExtraInTarget,
		MissingInDBCamel: d.MissingInTarget,
		ExtraInDBCamel:   d.ExtraInTarget,
		Counts: diffCounts{
			MissingFolders: d.MissingInTarget.Len(),
			MissingPairs:   d.MissingInTarget.Pairs(),
			ExtraFolders:   d.ExtraInTarget.Len(),
			ExtraPairs:     d.ExtraInTarget.Pairs(),
		},
		Source: source,
	}
}

// matricesResponse lists the matrices of an ALS and the one chosen by default.
type matricesResponse struct {
	Matrices []core.MatrixInfo `json:"matrices"`
	Default  string            `json:"default"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
	})
}

func (s *Server) handleListFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"formats": s.service.Formats()})
}

// handleDiscoverMatrices lists the matrix sheets of an uploaded ALS without
// creating a session.
func (s *Server) handleDiscoverMatrices(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		respondError(w, r, err)
		return
	}
	wb, err := s.readWorkbook(r, fieldMaster)
	if err != nil {
		respondError(w, r, err)
		return
	}
	matrices, err := s.service.DiscoverMatrices(wb)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matricesResponse{
		Matrices: matrices,
		Default:  core.DefaultMatrix(matrices, s.service.PreferredMatrix()),
	})
}

// handleCompareOnce compares an uploaded ALS and SSD in one request.
// With ?format=csv the annotated report is returned instead of JSON.
func (s *Server) handleCompareOnce(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		respondError(w, r, err)
		return
	}
	wb, err := s.readWorkbook(r, fieldMaster)
	if err != nil {
		respondError(w, r, err)
		return
	}
	in, err := s.readCandidate(w, r, true)
	if err != nil {
		respondError(w, r, err)
		return
	}
	c, err := in.parse()
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.service.Compare(r.Context(), wb, r.FormValue("matrix_oid"), c)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, core.DiffReportFileName, result.Report())
		return
	}
	writeJSON(w, http.StatusOK, struct {
		MatrixOID string `json:"matrixOID"`
		diffResponse
	}{
		MatrixOID:    result.Hierarchy.MatrixOID,
		diffResponse: newDiffResponse(result.Diff, c.Source),
	})
}
