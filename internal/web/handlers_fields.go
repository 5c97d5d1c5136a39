package web

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/matrixdiff/internal/core"
)

// formFieldsResponse is the body of GET /forms/{form}/fields.
type formFieldsResponse struct {
	FormOID string              `json:"formOID"`
	Role    string              `json:"role"`
	Fields  []core.FieldPreview `json:"fields"`
}

type dictionaryResponse struct {
	Name    string                 `json:"name"`
	Entries []core.DictionaryEntry `json:"entries"`
}

func (s *Server) handleRoles(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	roles, err := sess.Roles()
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"roles": roles})
}

// handleFormFields previews one form as the role in ?role= sees it.
func (s *Server) handleFormFields(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	role := r.URL.Query().Get("role")
	if role == "" {
		role = core.AllRoles
	}
	form := pathParam(r, "form")
	fields, err := sess.FormFields(form, role)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, formFieldsResponse{
		FormOID: core.NormalizeCode(form),
		Role:    role,
		Fields:  fields,
	})
}

func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	name := pathParam(r, "name")
	entries, err := sess.Dictionary(name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dictionaryResponse{Name: name, Entries: entries})
}

// pathParam returns a decoded URL parameter. Dictionary names and codes may
// contain spaces or slashes.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
