package core

// fields.go reads the field-level sheets of an ALS (Fields, DataDictionaries
// and DataDictionaryEntries) so a form can be previewed the way a given role
// sees it.

import (
	"cmp"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// AllRoles is the pseudo-role that sees every field without restriction.
const AllRoles = "All"

// ALS sheet names, matched without regard to case.
const (
	fieldsSheet            = "Fields"
	dictionariesSheet      = "DataDictionaries"
	dictionaryEntriesSheet = "DataDictionaryEntries"
)

// Field is one row of the Fields sheet. Attributes holds every column of the
// row as exported.
type Field struct {
	FormOID               string            `json:"formOID"`
	FieldOID              string            `json:"fieldOID"`
	VariableOID           string            `json:"variableOID,omitempty"`
	Label                 string            `json:"label,omitempty"`
	ControlType           string            `json:"controlType,omitempty"`
	DataDictionaryName    string            `json:"dataDictionaryName,omitempty"`
	Ordinal               float64           `json:"ordinal"`
	ViewRestrictions      []string          `json:"viewRestrictions"`
	EntryRestrictions     []string          `json:"entryRestrictions"`
	IsRequired            bool              `json:"isRequired"`
	QueryFutureDate       bool              `json:"queryFutureDate"`
	QueryNonConformance   bool              `json:"queryNonConformance"`
	DoesNotBreakSignature bool              `json:"doesNotBreakSignature"`
	Attributes            map[string]string `json:"attributes,omitempty"`
}

// Prefix marks field properties in a fixed order: * required,
// # future dates queried, ^ non-conformance queried, $ signature kept.
func (f Field) Prefix() string {
	var b strings.Builder
	for _, flag := range []struct {
		on   bool
		mark byte
	}{
		{f.IsRequired, '*'},
		{f.QueryFutureDate, '#'},
		{f.QueryNonConformance, '^'},
		{f.DoesNotBreakSignature, '$'},
	} {
		if flag.on {
			b.WriteByte(flag.mark)
		}
	}
	return b.String()
}

// DictionaryEntry is one coded value of a data dictionary.
type DictionaryEntry struct {
	DictionaryName string  `json:"dataDictionaryName"`
	CodedData      string  `json:"codedData"`
	UserDataString string  `json:"userDataString"`
	Ordinal        float64 `json:"ordinal"`
	Specify        bool    `json:"specify"`
}

// FieldPreview is a field as one role sees it, with its dictionary entries
// resolved.
type FieldPreview struct {
	Field
	DisplayPrefix     string            `json:"displayPrefix"`
	DictionaryEntries []DictionaryEntry `json:"dictionaryEntries"`
	IsVisible         bool              `json:"isVisible"`
	IsEntryRestricted bool              `json:"isEntryRestricted"`
}

// FieldCatalog holds the field and dictionary sheets of one ALS.
// The zero value is an empty catalog.
type FieldCatalog struct {
	fields       []Field
	dictionaries map[string][]DictionaryEntry
	names        []string
}

// BuildFieldCatalog reads the field sheets of wb. Missing or unreadable
// sheets leave their part of the catalog empty.
func BuildFieldCatalog(wb Workbook) FieldCatalog {
	c := FieldCatalog{dictionaries: map[string][]DictionaryEntry{}}
	if wb == nil {
		return c
	}
	sheets := wb.SheetNames()

	for _, r := range catalogRows(wb, sheets, fieldsSheet) {
		if f, ok := fieldFromRecord(r); ok {
			c.fields = append(c.fields, f)
		}
	}
	for _, r := range catalogRows(wb, sheets, dictionariesSheet) {
		if name, _ := r.Get("DataDictionaryName"); name != "" {
			c.addDictionary(name)
		}
	}
	for _, r := range catalogRows(wb, sheets, dictionaryEntriesSheet) {
		e := entryFromRecord(r)
		if e.DictionaryName == "" {
			continue
		}
		c.addDictionary(e.DictionaryName)
		c.dictionaries[e.DictionaryName] = append(c.dictionaries[e.DictionaryName], e)
	}
	for _, entries := range c.dictionaries {
		slices.SortStableFunc(entries, func(a, b DictionaryEntry) int {
			return cmp.Compare(a.Ordinal, b.Ordinal)
		})
	}
	return c
}

func (c *FieldCatalog) addDictionary(name string) {
	if _, ok := c.dictionaries[name]; ok {
		return
	}
	c.dictionaries[name] = []DictionaryEntry{}
	c.names = append(c.names, name)
}

// catalogRows returns the records of the sheet named name, or nil.
func catalogRows(wb Workbook, sheets []string, name string) []Record {
	for _, s := range sheets {
		if !strings.EqualFold(strings.TrimSpace(s), name) {
			continue
		}
		rows, err := wb.Rows(s)
		if err != nil {
			slog.Warn("field sheet skipped", "sheet", s, "error", err)
			return nil
		}
		return ParseRows(rows)
	}
	slog.Debug("field sheet not found", "sheet", name)
	return nil
}

func fieldFromRecord(r Record) (Field, bool) {
	form, _ := r.Get("FormOID")
	field, _ := r.Get("FieldOID")
	f := Field{
		FormOID:               NormalizeCode(form),
		FieldOID:              field,
		VariableOID:           recordValue(r, "VariableOID"),
		Label:                 recordValue(r, "PreText"),
		ControlType:           recordValue(r, "ControlType"),
		DataDictionaryName:    recordValue(r, "DataDictionaryName"),
		Ordinal:               parseOrdinal(recordValue(r, "Ordinal")),
		ViewRestrictions:      splitRoles(recordValue(r, "ViewRestrictions")),
		EntryRestrictions:     splitRoles(recordValue(r, "EntryRestrictions")),
		IsRequired:            isTrue(recordValue(r, "IsRequired")),
		QueryFutureDate:       isTrue(recordValue(r, "QueryFutureDate")),
		QueryNonConformance:   isTrue(recordValue(r, "QueryNonConformance")),
		DoesNotBreakSignature: isTrue(recordValue(r, "DoesNotBreakSignature")),
		Attributes:            make(map[string]string, len(r.Columns)),
	}
	for i, col := range r.Columns {
		if col != "" {
			f.Attributes[col] = r.Values[i]
		}
	}
	return f, f.FormOID != ""
}

func entryFromRecord(r Record) DictionaryEntry {
	order, _ := r.Lookup([]string{"Ordinal", "Order"})
	specify := strings.ToLower(recordValue(r, "Specify"))
	return DictionaryEntry{
		DictionaryName: recordValue(r, "DataDictionaryName"),
		CodedData:      recordValue(r, "CodedData"),
		UserDataString: recordValue(r, "UserDataString"),
		Ordinal:        parseOrdinal(order),
		Specify:        specify == "yes" || specify == "true",
	}
}

func recordValue(r Record, column string) string {
	v, _ := r.Get(column)
	return v
}

// parseOrdinal parses a sheet ordinal. Blank or non-numeric cells sort as 0.
func parseOrdinal(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func isTrue(s string) bool { return strings.EqualFold(s, "TRUE") }

// splitRoles splits a comma-separated restriction list.
func splitRoles(s string) []string {
	roles := []string{}
	for part := range strings.SplitSeq(s, ",") {
		if role := strings.TrimSpace(part); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

// Len returns the number of fields read.
func (c FieldCatalog) Len() int { return len(c.fields) }

// Roles returns AllRoles followed by every role named in a view or entry
// restriction, sorted.
func (c FieldCatalog) Roles() []string {
	var roles []string
	for _, f := range c.fields {
		for _, role := range slices.Concat(f.ViewRestrictions, f.EntryRestrictions) {
			if role != AllRoles && !slices.Contains(roles, role) {
				roles = append(roles, role)
			}
		}
	}
	slices.Sort(roles)
	return append([]string{AllRoles}, roles...)
}

// FieldsForForm returns the fields of form that role may see, ordered by
// ordinal. An empty role means AllRoles. Role names are case-sensitive.
func (c FieldCatalog) FieldsForForm(form, role string) []FieldPreview {
	out := []FieldPreview{}
	code := NormalizeCode(form)
	if code == "" {
		return out
	}
	if role == "" {
		role = AllRoles
	}
	restricted := role != AllRoles

	for _, f := range c.fields {
		if f.FormOID != code {
			continue
		}
		if restricted && slices.Contains(f.ViewRestrictions, role) {
			continue
		}
		p := FieldPreview{
			Field:             f,
			DisplayPrefix:     f.Prefix(),
			DictionaryEntries: []DictionaryEntry{},
			IsVisible:         true,
			IsEntryRestricted: restricted && slices.Contains(f.EntryRestrictions, role),
		}
		if f.DataDictionaryName != "" {
			p.DictionaryEntries = append(p.DictionaryEntries, c.dictionaries[f.DataDictionaryName]...)
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b FieldPreview) int {
		return cmp.Compare(a.Ordinal, b.Ordinal)
	})
	return out
}

// DictionaryNames lists the data dictionaries in sheet order: the
// DataDictionaries sheet first, then names only found on entries.
func (c FieldCatalog) DictionaryNames() []string {
	return slices.Clone(c.names)
}

// Dictionary returns the entries of one data dictionary, ordered by ordinal.
func (c FieldCatalog) Dictionary(name string) ([]DictionaryEntry, bool) {
	entries, ok := c.dictionaries[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(entries), true
}
