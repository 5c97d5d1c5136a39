package core

import (
	"bytes"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
)

// Record is one header-keyed row of tabular input.
// Columns keep the trimmed header text as it appeared in the source; lookups
// are case-insensitive.
type Record struct {
	Columns []string
	Values  []string
}

// NewRecord builds a Record from parallel column and value slices.
// Missing trailing values map to the empty string.
func NewRecord(columns, values []string) Record {
	r := Record{
		Columns: make([]string, len(columns)),
		Values:  make([]string, len(columns)),
	}
	for i, c := range columns {
		r.Columns[i] = strings.TrimSpace(c)
		if i < len(values) {
			r.Values[i] = strings.TrimSpace(values[i])
		}
	}
	return r
}

// RecordFromMap builds a Record from a decoded JSON object.
// Column order follows sorted keys so decoding stays deterministic.
func RecordFromMap(m map[string]string) Record {
	cols := make([]string, 0, len(m))
	for k := range m {
		cols = append(cols, k)
	}
	slices.Sort(cols)
	vals := make([]string, len(cols))
	for i, c := range cols {
		vals[i] = m[c]
	}
	return NewRecord(cols, vals)
}

// Get returns the value of the first column whose name matches name,
// ignoring case and surrounding whitespace.
func (r Record) Get(name string) (string, bool) {
	want := strings.TrimSpace(name)
	for i, c := range r.Columns {
		if strings.EqualFold(strings.TrimSpace(c), want) {
			return r.Values[i], true
		}
	}
	return "", false
}

// Lookup tries each alias in priority order and returns the first match.
func (r Record) Lookup(aliases []string) (string, bool) {
	for _, a := range aliases {
		if v, ok := r.Get(a); ok {
			return v, true
		}
	}
	return "", false
}

// FolderFormMap is the canonical membership mapping: folder code -> set of
// form codes. Codes are stored as given; callers normalize before Add.
// Folders and forms keep first-insertion order. A folder only exists once it
// has at least one form.
type FolderFormMap struct {
	folders []string
	forms   map[string][]string
	index   map[string]map[string]struct{}
}

// NewFolderFormMap returns an empty map ready for use.
func NewFolderFormMap() FolderFormMap {
	return FolderFormMap{
		forms: make(map[string][]string),
		index: make(map[string]map[string]struct{}),
	}
}

// Add inserts a (folder, form) pair. Returns false if the pair was already
// present or either code is empty.
func (m *FolderFormMap) Add(folder, form string) bool {
	if folder == "" || form == "" {
		return false
	}
	if m.index == nil {
		m.forms = make(map[string][]string)
		m.index = make(map[string]map[string]struct{})
	}
	set, ok := m.index[folder]
	if !ok {
		set = make(map[string]struct{})
		m.index[folder] = set
		m.folders = append(m.folders, folder)
	}
	if _, dup := set[form]; dup {
		return false
	}
	set[form] = struct{}{}
	m.forms[folder] = append(m.forms[folder], form)
	return true
}

// Folders returns folder codes in insertion order.
func (m FolderFormMap) Folders() []string {
	out := make([]string, len(m.folders))
	copy(out, m.folders)
	return out
}

// Forms returns the forms of a folder in insertion order.
func (m FolderFormMap) Forms(folder string) []string {
	src := m.forms[folder]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// HasFolder reports whether folder has any members.
func (m FolderFormMap) HasFolder(folder string) bool {
	_, ok := m.index[folder]
	return ok
}

// Has reports whether the pair is present.
func (m FolderFormMap) Has(folder, form string) bool {
	_, ok := m.index[folder][form]
	return ok
}

// Len returns the number of folders.
func (m FolderFormMap) Len() int { return len(m.folders) }

// Pairs returns the total number of (folder, form) pairs.
func (m FolderFormMap) Pairs() int {
	n := 0
	for _, f := range m.folders {
		n += len(m.forms[f])
	}
	return n
}

// ToMap returns a plain map copy, mainly for comparisons in tests and callers
// that do not care about order.
func (m FolderFormMap) ToMap() map[string][]string {
	out := make(map[string][]string, len(m.folders))
	for _, f := range m.folders {
		out[f] = m.Forms(f)
	}
	return out
}

// MarshalJSON writes the map as a JSON object in insertion order.
func (m FolderFormMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m.folders {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.forms[f])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MatrixEntry is one form row of a membership matrix.
type MatrixEntry struct {
	FormCode        string   `json:"formOid"`
	IncludedFolders []string `json:"includedFolders"`
}

// MatrixSheet is a worksheet encoding folder x form membership as an X grid.
// Every IncludedFolders value is one of FolderCodes.
type MatrixSheet struct {
	SheetName   string        `json:"sheetName"`
	Title       string        `json:"title,omitempty"`
	FolderCodes []string      `json:"folderOids"`
	Entries     []MatrixEntry `json:"matrixEntries"`
}

// DiffResult holds per-folder discrepancies between candidate and reference.
// A folder never maps to an empty slice.
type DiffResult struct {
	MissingInTarget FolderFormMap `json:"missing_in_db"`
	ExtraInTarget   FolderFormMap `json:"extra_in_db"`
}

// Empty reports whether there are no discrepancies in either direction.
func (d DiffResult) Empty() bool {
	return d.MissingInTarget.Len() == 0 && d.ExtraInTarget.Len() == 0
}

// NameMap maps an uppercase code to its display name.
type NameMap map[string]string

// NameSet holds the folder and form name maps of one data source.
type NameSet struct {
	Folders NameMap
	Forms   NameMap
}

// EmptyNameSet returns a NameSet with empty, non-nil maps.
func EmptyNameSet() NameSet {
	return NameSet{Folders: NameMap{}, Forms: NameMap{}}
}

// Side names which direction of the diff a row belongs to.
type Side string

const (
	SideMissing Side = "missing" // present in candidate only
	SideExtra   Side = "extra"   // present in reference only
)

// Selection is the persisted folder view filter.
type Selection struct {
	Selected []string `json:"selected"`
	Auto     bool     `json:"auto"`
}

// Contains reports whether code is selected.
func (s Selection) Contains(code string) bool {
	for _, c := range s.Selected {
		if c == code {
			return true
		}
	}
	return false
}

// Form is a form within a master folder.
type Form struct {
	OID  string `json:"formOID"`
	Name string `json:"formName"`
}

// Folder is a master folder with its forms in master order.
type Folder struct {
	OID   string `json:"folderOID"`
	Name  string `json:"folderName"`
	Forms []Form `json:"forms"`
}

// Hierarchy is the master (ALS) folder/form structure for one matrix.
type Hierarchy struct {
	MatrixOID string   `json:"matrixOID"`
	SheetName string   `json:"sheet"`
	Folders   []Folder `json:"folders"`
}

// MatrixInfo describes an available matrix sheet.
type MatrixInfo struct {
	OID   string `json:"matrixOID"`
	Sheet string `json:"sheet"`
}
