package core

// keymap.go locates identifier columns under their accepted aliases and
// builds the canonical folder -> forms mapping.
//
// Alias tables are ordered: the first alias present in a record wins, even
// when a later alias also has a value.

import "strings"

var (
	folderAliases     = []string{"FolderOID", "Folder OID"}
	formAliases       = []string{"OID", "FormOID", "Form OID"}
	folderNameAliases = []string{"FolderName", "Folder Name"}
	formNameAliases   = []string{"FormName", "Form Name"}
)

// NormalizeCode canonicalizes a folder or form code.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// identifiers resolves the canonical folder and form codes of a record.
// ok is false when either column is missing or blank.
func identifiers(r Record) (folder, form string, ok bool) {
	fo, found := r.Lookup(folderAliases)
	if !found {
		return "", "", false
	}
	fm, found := r.Lookup(formAliases)
	if !found {
		return "", "", false
	}
	folder, form = NormalizeCode(fo), NormalizeCode(fm)
	if folder == "" || form == "" {
		return "", "", false
	}
	return folder, form, true
}

// BuildFolderFormMap maps every resolvable record into a FolderFormMap.
// Records without both identifiers are skipped.
func BuildFolderFormMap(records []Record) FolderFormMap {
	m := NewFolderFormMap()
	for _, r := range records {
		folder, form, ok := identifiers(r)
		if !ok {
			continue
		}
		m.Add(folder, form)
	}
	return m
}

// BuildNameMaps collects folder and form display names from records.
// A code whose record has no name column maps to "".
func BuildNameMaps(records []Record) NameSet {
	names := EmptyNameSet()
	for _, r := range records {
		folder, form, ok := identifiers(r)
		if !ok {
			continue
		}
		folderName, _ := r.Lookup(folderNameAliases)
		formName, _ := r.Lookup(formNameAliases)
		names.Folders[folder] = folderName
		names.Forms[form] = formName
	}
	return names
}

// MapFromLists builds a FolderFormMap from a decoded folder -> forms object.
// Folders are visited in the given order.
func MapFromLists(folders []string, forms map[string][]string) FolderFormMap {
	m := NewFolderFormMap()
	for _, fo := range folders {
		folder := NormalizeCode(fo)
		for _, fm := range forms[fo] {
			m.Add(folder, NormalizeCode(fm))
		}
	}
	return m
}
