package core

// hierarchy.go builds the master (ALS) folder/form hierarchy from a workbook:
// membership comes from one matrix sheet, display names from the Folders and
// Forms sheets when the workbook has them.

import (
	"fmt"
	"log/slog"
	"strings"
)

// Alias lists for the ALS metadata sheets. Unlike SSD rows, these sheets
// describe a single entity, so a bare "OID"/"Name" column is accepted last.
var (
	metaFolderOIDAliases  = []string{"FolderOID", "Folder OID", "OID"}
	metaFolderNameAliases = []string{"FolderName", "Folder Name", "Name"}
	metaFormOIDAliases    = []string{"FormOID", "Form OID", "OID"}
	metaFormNameAliases   = []string{"FormName", "Form Name", "Name"}
)

// HierarchyOptions controls which matrix BuildHierarchy uses.
type HierarchyOptions struct {
	MatrixOID string // explicit choice; empty means Preferred, then first
	Preferred string // defaults to DefaultMatrixOID
}

// BuildHierarchy extracts the master hierarchy from an ALS workbook. It also
// returns all matrix sheets found so callers can offer the other choices.
func BuildHierarchy(wb Workbook, opts HierarchyOptions) (*Hierarchy, []MatrixSheet, error) {
	sheets, err := ExtractMatrices(wb)
	if err != nil {
		return nil, nil, err
	}

	preferred := opts.Preferred
	if preferred == "" {
		preferred = DefaultMatrixOID
	}
	matrix, err := SelectMatrix(sheets, opts.MatrixOID, preferred)
	if err != nil {
		return nil, sheets, err
	}

	// An unreadable name sheet costs only its names.
	folderNames := namesOrEmpty(sheetNames(wb, []string{"Folders", "Folder"}, metaFolderOIDAliases, metaFolderNameAliases))
	formNames := namesOrEmpty(sheetNames(wb, []string{"Forms", "Form"}, metaFormOIDAliases, metaFormNameAliases))

	membership := BuildFolderFormMap(matrix.Records())
	h := &Hierarchy{
		MatrixOID: matrix.OID(),
		SheetName: matrix.SheetName,
		Folders:   make([]Folder, 0, membership.Len()),
	}
	for _, folder := range membership.Folders() {
		f := Folder{OID: folder, Name: folderNames[folder]}
		for _, form := range membership.Forms(folder) {
			f.Forms = append(f.Forms, Form{OID: form, Name: formNames[form]})
		}
		h.Folders = append(h.Folders, f)
	}
	return h, sheets, nil
}

// sheetNames reads a code -> name map from the first sheet matching one of
// candidates. A missing sheet yields an empty map.
func sheetNames(wb Workbook, candidates, oidAliases, nameAliases []string) (NameMap, error) {
	names := NameMap{}
	sheet, ok := findSheet(wb.SheetNames(), candidates)
	if !ok {
		return names, nil
	}
	rows, err := wb.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	for _, r := range ParseRows(rows) {
		oid, ok := r.Lookup(oidAliases)
		if !ok {
			continue
		}
		code := NormalizeCode(oid)
		if code == "" {
			continue
		}
		name, _ := r.Lookup(nameAliases)
		names[code] = name
	}
	return names, nil
}

func namesOrEmpty(names NameMap, err error) NameMap {
	if err != nil {
		slog.Warn("name sheet skipped", "error", err)
		return NameMap{}
	}
	return names
}

// findSheet matches names exactly (case-insensitive) first, then by substring.
// Matrix sheets are never metadata sheets.
func findSheet(names, candidates []string) (string, bool) {
	for _, c := range candidates {
		for _, n := range names {
			if strings.EqualFold(strings.TrimSpace(n), c) {
				return n, true
			}
		}
	}
	for _, c := range candidates {
		for _, n := range names {
			lower := strings.ToLower(n)
			if strings.Contains(lower, "matrix") {
				continue
			}
			if strings.Contains(lower, strings.ToLower(c)) {
				return n, true
			}
		}
	}
	return "", false
}

// FolderCodes returns the folder codes in master order.
func (h *Hierarchy) FolderCodes() []string {
	if h == nil {
		return nil
	}
	out := make([]string, len(h.Folders))
	for i, f := range h.Folders {
		out[i] = f.OID
	}
	return out
}

// FolderFormMap returns the reference membership mapping.
func (h *Hierarchy) FolderFormMap() FolderFormMap {
	m := NewFolderFormMap()
	if h == nil {
		return m
	}
	for _, f := range h.Folders {
		for _, fm := range f.Forms {
			m.Add(NormalizeCode(f.OID), NormalizeCode(fm.OID))
		}
	}
	return m
}

// Names returns the reference-side name maps.
func (h *Hierarchy) Names() NameSet {
	names := EmptyNameSet()
	if h == nil {
		return names
	}
	for _, f := range h.Folders {
		names.Folders[NormalizeCode(f.OID)] = f.Name
		for _, fm := range f.Forms {
			names.Forms[NormalizeCode(fm.OID)] = fm.Name
		}
	}
	return names
}

// FormCount returns the number of (folder, form) pairs.
func (h *Hierarchy) FormCount() int {
	if h == nil {
		return 0
	}
	n := 0
	for _, f := range h.Folders {
		n += len(f.Forms)
	}
	return n
}

// VisibleFolders returns the selected folders in master order.
func VisibleFolders(h *Hierarchy, sel Selection) []Folder {
	if h == nil {
		return nil
	}
	out := make([]Folder, 0, len(sel.Selected))
	for _, f := range h.Folders {
		if sel.Contains(f.OID) {
			out = append(out, f)
		}
	}
	return out
}
