package core

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Summary counts the state of a session for status displays.
type Summary struct {
	MatrixOID    string `json:"matrixOID,omitempty"`
	Folders      int    `json:"folders"`
	Forms        int    `json:"forms"`
	Selected     int    `json:"selected"`
	MissingPairs int    `json:"missingPairs"`
	ExtraPairs   int    `json:"extraPairs"`
	Candidate    string `json:"candidate,omitempty"`
}

// Session owns one reconciliation: the master hierarchy, the last candidate,
// the diff between them and the folder selection. All state changes happen
// under mu; a master reload replaces hierarchy, diff, candidate and selection
// together.
type Session struct {
	ID        string
	CreatedAt time.Time

	store *SelectionStore // nil disables persistence

	mu         sync.Mutex
	generation uint64
	hierarchy  *Hierarchy
	matrices   []MatrixInfo
	fields     FieldCatalog
	candidate  *Candidate
	diff       DiffResult
	selection  Selection
	lastUsed   time.Time
}

// NewSession creates an empty session. store may be nil.
func NewSession(id string, store *SelectionStore) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		store:     store,
		diff:      emptyDiff(),
		selection: Selection{Selected: []string{}, Auto: true},
		lastUsed:  now,
	}
}

func emptyDiff() DiffResult {
	return DiffResult{MissingInTarget: NewFolderFormMap(), ExtraInTarget: NewFolderFormMap()}
}

func (s *Session) touch() { s.lastUsed = time.Now() }

// LastUsed returns when the session was last read or changed.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// LoadMaster builds the hierarchy of wb and makes it the session's master.
// The previous diff and candidate are dropped; the selection resets to all
// folders and, when remembering is on, the saved selection is restored.
// On error the session is left as it was.
func (s *Session) LoadMaster(ctx context.Context, wb Workbook, opts HierarchyOptions) (*Hierarchy, error) {
	h, sheets, err := BuildHierarchy(wb, opts)
	if err != nil {
		return nil, err
	}
	fields := BuildFieldCatalog(wb)

	s.mu.Lock()
	auto := s.selection.Auto
	s.mu.Unlock()

	codes := h.FolderCodes()
	sel := Selection{Selected: codes, Auto: auto}
	if auto && s.store != nil {
		restored, err := s.store.Restore(ctx, codes, sel)
		if err != nil {
			slog.Warn("restore folder selection", "session", s.ID, "error", err)
		}
		sel = restored
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.hierarchy = h
	s.matrices = ListMatrices(sheets)
	s.fields = fields
	s.candidate = nil
	s.diff = emptyDiff()
	s.selection = sel
	s.touch()

	slog.Info("master loaded",
		"session", s.ID,
		"matrix", h.MatrixOID,
		"folders", len(h.Folders),
		"forms", h.FormCount(),
		"fields", fields.Len(),
		"selected", len(sel.Selected),
	)
	return h, nil
}

// Compare diffs c against the current master and stores the result.
// If the master is replaced while the diff is computed, nothing is stored
// and ErrStaleHierarchy is returned.
func (s *Session) Compare(ctx context.Context, c Candidate) (DiffResult, error) {
	if err := ctx.Err(); err != nil {
		return DiffResult{}, err
	}

	s.mu.Lock()
	h, gen := s.hierarchy, s.generation
	s.mu.Unlock()
	if h == nil {
		return DiffResult{}, ErrNoHierarchy
	}

	d := Diff(h.FolderFormMap(), c.Map)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return DiffResult{}, ErrStaleHierarchy
	}
	s.candidate = &c
	s.diff = d
	s.touch()

	slog.Info("candidate compared",
		"session", s.ID,
		"source", c.Source,
		"missing_pairs", d.MissingInTarget.Pairs(),
		"extra_pairs", d.ExtraInTarget.Pairs(),
	)
	return d, nil
}

// CompareText parses pasted SSD text and compares it. Unrecognized input
// returns ErrUnrecognizedCandidate and leaves the previous diff in place.
func (s *Session) CompareText(ctx context.Context, text string) (DiffResult, error) {
	c, ok := ParseCandidateText(text)
	if !ok {
		return DiffResult{}, ErrUnrecognizedCandidate
	}
	return s.Compare(ctx, c)
}

// CompareFile decodes an uploaded SSD file and compares it.
func (s *Session) CompareFile(ctx context.Context, fileName string, data []byte) (DiffResult, error) {
	c, err := ParseCandidateFile(fileName, data)
	if err != nil {
		return DiffResult{}, err
	}
	return s.Compare(ctx, c)
}

// Hierarchy returns the current master, or nil.
func (s *Session) Hierarchy() *Hierarchy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.hierarchy
}

// Matrices lists the matrices of the loaded ALS.
func (s *Session) Matrices() []MatrixInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.matrices)
}

// Roles lists the roles named by the master's field restrictions, with
// AllRoles first.
func (s *Session) Roles() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hierarchy == nil {
		return nil, ErrNoHierarchy
	}
	s.touch()
	return s.fields.Roles(), nil
}

// FormFields returns the fields of one master form as role sees them.
func (s *Session) FormFields(form, role string) ([]FieldPreview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hierarchy == nil {
		return nil, ErrNoHierarchy
	}
	s.touch()
	return s.fields.FieldsForForm(form, role), nil
}

// Dictionary returns the entries of one data dictionary of the master.
func (s *Session) Dictionary(name string) ([]DictionaryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hierarchy == nil {
		return nil, ErrNoHierarchy
	}
	s.touch()
	entries, ok := s.fields.Dictionary(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDictionaryNotFound, name)
	}
	return entries, nil
}

// Diff returns the current diff. It is empty until a candidate is compared.
func (s *Session) Diff() DiffResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.diff
}

// Selection returns a copy of the current selection.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySelection(s.selection)
}

func copySelection(sel Selection) Selection {
	out := Selection{Selected: make([]string, len(sel.Selected)), Auto: sel.Auto}
	copy(out.Selected, sel.Selected)
	return out
}

// VisibleFolders returns the selected master folders in master order.
func (s *Session) VisibleFolders() []Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return VisibleFolders(s.hierarchy, s.selection)
}

// Toggle flips one folder in or out of the selection. Codes unknown to the
// master are ignored.
func (s *Session) Toggle(ctx context.Context, folder string) (Selection, error) {
	return s.mutateSelection(ctx, func(h *Hierarchy, sel Selection) Selection {
		if !slices.Contains(h.FolderCodes(), folder) {
			return sel
		}
		if i := slices.Index(sel.Selected, folder); i >= 0 {
			sel.Selected = slices.Delete(sel.Selected, i, i+1)
		} else {
			sel.Selected = append(sel.Selected, folder)
		}
		return sel
	}, false)
}

// SelectAll selects every master folder.
func (s *Session) SelectAll(ctx context.Context) (Selection, error) {
	return s.mutateSelection(ctx, func(h *Hierarchy, sel Selection) Selection {
		sel.Selected = h.FolderCodes()
		return sel
	}, false)
}

// ClearAll empties the selection.
func (s *Session) ClearAll(ctx context.Context) (Selection, error) {
	return s.mutateSelection(ctx, func(_ *Hierarchy, sel Selection) Selection {
		sel.Selected = []string{}
		return sel
	}, false)
}

// SetSelection replaces the selection with the known codes of folders and
// sets the remember flag. The result is saved even when auto is false so the
// flag itself persists.
func (s *Session) SetSelection(ctx context.Context, folders []string, auto bool) (Selection, error) {
	return s.mutateSelection(ctx, func(h *Hierarchy, _ Selection) Selection {
		known := h.FolderCodes()
		out := Selection{Selected: []string{}, Auto: auto}
		for _, f := range folders {
			if slices.Contains(known, f) && !slices.Contains(out.Selected, f) {
				out.Selected = append(out.Selected, f)
			}
		}
		return out
	}, true)
}

// mutateSelection applies fn under the lock and persists the result when
// remembering is on (or always is set).
func (s *Session) mutateSelection(ctx context.Context, fn func(*Hierarchy, Selection) Selection, always bool) (Selection, error) {
	s.mu.Lock()
	if s.hierarchy == nil {
		s.mu.Unlock()
		return Selection{}, ErrNoHierarchy
	}
	s.selection = fn(s.hierarchy, copySelection(s.selection))
	s.touch()
	sel := copySelection(s.selection)
	s.mu.Unlock()

	if s.store != nil && (sel.Auto || always) {
		if err := s.store.Save(ctx, sel); err != nil {
			return sel, err
		}
	}
	return sel, nil
}

// Preview returns one page of the last candidate's preview lines.
func (s *Session) Preview(page int) PreviewPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var lines []string
	if s.candidate != nil {
		lines = s.candidate.Lines
	}
	return Paginate(lines, page)
}

// ExportDiff renders the annotated diff report.
func (s *Session) ExportDiff() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hierarchy == nil {
		return "", ErrNoHierarchy
	}
	candidateNames := EmptyNameSet()
	if s.candidate != nil {
		candidateNames = s.candidate.Names
	}
	return RenderDiffReport(s.diff, s.hierarchy.Names(), candidateNames), nil
}

// ExportHierarchy renders the selected part of the master hierarchy.
func (s *Session) ExportHierarchy() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hierarchy == nil {
		return "", ErrNoHierarchy
	}
	return RenderHierarchyReport(s.hierarchy, s.selection), nil
}

// Summary reports counts for the current state.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := Summary{
		Selected:     len(s.selection.Selected),
		MissingPairs: s.diff.MissingInTarget.Pairs(),
		ExtraPairs:   s.diff.ExtraInTarget.Pairs(),
	}
	if s.hierarchy != nil {
		sum.MatrixOID = s.hierarchy.MatrixOID
		sum.Folders = len(s.hierarchy.Folders)
		sum.Forms = s.hierarchy.FormCount()
	}
	if s.candidate != nil {
		sum.Candidate = s.candidate.Source
	}
	return sum
}
