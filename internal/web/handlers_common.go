package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/matrixdiff/internal/core"
	"github.com/JonMunkholm/matrixdiff/internal/workbook"
)

// Multipart field names.
const (
	fieldMaster    = "als_file"
	fieldCandidate = "ssd_file"
	fieldText      = "ssd_text"
)

// multipartSlack covers boundaries and part headers on top of the file limit.
const multipartSlack = 1 << 20

// upload is one file read from a request.
type upload struct {
	Name string
	Data []byte
}

// limitBody caps the request body at the configured upload size.
func (s *Server) limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.Upload.MaxFileSize)+multipartSlack)
}

// parseMultipart parses a multipart body, translating size overruns.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	s.limitBody(w, r)
	if err := r.ParseMultipartForm(int64(s.cfg.Upload.MaxMemory)); err != nil {
		return uploadError(err)
	}
	return nil
}

// formFile reads one file part; missing parts return errNoFile.
func (s *Server) formFile(r *http.Request, field string) (upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return upload{}, fmt.Errorf("%w: %s", errNoFile, field)
		}
		return upload{}, uploadError(err)
	}
	defer file.Close()

	data, err := core.ReadAllLimited(file, int64(s.cfg.Upload.MaxFileSize))
	if err != nil {
		return upload{}, err
	}
	return upload{Name: header.Filename, Data: data}, nil
}

// readUpload parses a multipart request and returns the file in field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (upload, error) {
	if err := s.parseMultipart(w, r); err != nil {
		return upload{}, err
	}
	return s.formFile(r, field)
}

// readWorkbook decodes the ALS workbook in field.
func (s *Server) readWorkbook(r *http.Request, field string) (*workbook.Grid, error) {
	up, err := s.formFile(r, field)
	if err != nil {
		if errors.Is(err, errNoFile) {
			return nil, fmt.Errorf("%w: %s", core.ErrNoWorkbook, field)
		}
		return nil, err
	}
	if strings.TrimSpace(string(up.Data)) == "" {
		return nil, core.ErrEmptyFile
	}
	return workbook.Read(up.Data)
}

// candidateInput is SSD input taken from a request: a file or pasted text.
type candidateInput struct {
	File *upload
	Text string
}

// readCandidate accepts a multipart file (ssd_file) or text (ssd_text), an
// urlencoded ssd_text field, or a raw body of any other content type.
// Multipart forms must already be parsed when multipart is true.
func (s *Server) readCandidate(w http.ResponseWriter, r *http.Request, multipart bool) (candidateInput, error) {
	if multipart {
		up, err := s.formFile(r, fieldCandidate)
		switch {
		case err == nil:
			return candidateInput{File: &up}, nil
		case !errors.Is(err, errNoFile):
			return candidateInput{}, err
		}
		if text := r.FormValue(fieldText); text != "" {
			return candidateInput{Text: text}, nil
		}
		return candidateInput{}, fmt.Errorf("%w: %s or %s", errNoFile, fieldCandidate, fieldText)
	}

	s.limitBody(w, r)
	if mediaType(r) == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return candidateInput{}, uploadError(err)
		}
		return candidateInput{Text: r.PostForm.Get(fieldText)}, nil
	}

	data, err := core.ReadAllLimited(core.CleanReader(r.Body), int64(s.cfg.Upload.MaxFileSize))
	if err != nil {
		return candidateInput{}, uploadError(err)
	}
	return candidateInput{Text: string(data)}, nil
}

// parse turns the input into a Candidate.
func (in candidateInput) parse() (core.Candidate, error) {
	if in.File != nil {
		return core.ParseCandidateFile(in.File.Name, in.File.Data)
	}
	c, ok := core.ParseCandidateText(in.Text)
	if !ok {
		return core.Candidate{}, core.ErrUnrecognizedCandidate
	}
	return c, nil
}

// isMultipart reports whether r carries a multipart body.
func isMultipart(r *http.Request) bool {
	return mediaType(r) == "multipart/form-data"
}

func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

// uploadError maps body size overruns to core.ErrFileTooLarge.
func uploadError(err error) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return fmt.Errorf("%w: limit %d bytes", core.ErrFileTooLarge, tooBig.Limit)
	}
	if errors.Is(err, core.ErrFileTooLarge) {
		return err
	}
	return errors.Join(errBadRequest, err)
}

// session resolves the {sessionID} URL parameter.
func (s *Server) session(r *http.Request) (*core.Session, error) {
	return s.service.Session(chi.URLParam(r, "sessionID"))
}

// parseIntParam parses a query parameter as int, returning defaultVal if
// missing or invalid.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	str := r.URL.Query().Get(name)
	if str == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}
	return val
}

// writeCSV sends a report as a file download.
func writeCSV(w http.ResponseWriter, fileName, body string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}
