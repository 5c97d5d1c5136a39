package core

// matrix.go extracts folder x form membership grids from ALS workbooks.
//
// A matrix sheet is any sheet whose name contains "matrix". Rave exports put a
// title row ("Matrix: MASTERDASHBOARD") above the header; the header row lists
// folder OIDs from column 1 onward and each data row is a form with "X" marks
// under the folders that contain it.

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultMatrixOID is the matrix preferred when the caller does not pick one.
const DefaultMatrixOID = "MASTERDASHBOARD"

// Workbook is the sheet access an ALS or SSD workbook must provide.
// Decoding the file format is left to the implementation.
type Workbook interface {
	SheetNames() []string
	Rows(sheet string) ([][]string, error)
}

// ExtractMatrices returns every matrix sheet of wb in workbook order.
func ExtractMatrices(wb Workbook) ([]MatrixSheet, error) {
	if wb == nil {
		return nil, ErrNoWorkbook
	}

	var sheets []MatrixSheet
	for _, name := range wb.SheetNames() {
		if !strings.Contains(strings.ToLower(name), "matrix") {
			continue
		}
		rows, err := wb.Rows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		if len(rows) < 2 {
			continue
		}
		sheets = append(sheets, parseMatrixSheet(name, rows))
	}
	return sheets, nil
}

func parseMatrixSheet(name string, rows [][]string) MatrixSheet {
	sheet := MatrixSheet{SheetName: name}

	header, data := rows[0], rows[1:]
	if strings.Contains(strings.ToLower(cell(rows[0], 0)), "matrix:") {
		sheet.Title = strings.TrimSpace(cell(rows[0], 0))
		header, data = rows[1], rows[2:]
	}

	if len(header) > 1 {
		sheet.FolderCodes = append([]string(nil), header[1:]...)
	} else {
		sheet.FolderCodes = []string{}
	}

	sheet.Entries = make([]MatrixEntry, 0, len(data))
	for _, row := range data {
		entry := MatrixEntry{FormCode: cell(row, 0), IncludedFolders: []string{}}
		for i, folder := range sheet.FolderCodes {
			if strings.ToUpper(strings.TrimSpace(cell(row, i+1))) == "X" {
				entry.IncludedFolders = append(entry.IncludedFolders, folder)
			}
		}
		sheet.Entries = append(sheet.Entries, entry)
	}
	return sheet
}

// cell returns row[i] or "" when the row is short.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// OID returns the matrix identifier: the text after "Matrix:" in the title
// row, else the sheet name suffix after '#', else the sheet name.
func (m MatrixSheet) OID() string {
	if m.Title != "" {
		if i := strings.Index(strings.ToLower(m.Title), "matrix:"); i >= 0 {
			if oid := strings.TrimSpace(m.Title[i+len("matrix:"):]); oid != "" {
				return oid
			}
		}
	}
	if i := strings.LastIndex(m.SheetName, "#"); i >= 0 && i < len(m.SheetName)-1 {
		return strings.TrimSpace(m.SheetName[i+1:])
	}
	return strings.TrimSpace(m.SheetName)
}

// Records flattens the included cells into FolderOID/FormOID records so the
// Key Mapper can normalize them like any other source. Records are emitted
// column by column so folders keep matrix column order.
func (m MatrixSheet) Records() []Record {
	cols := []string{folderAliases[0], "FormOID"}
	var out []Record
	for _, folder := range m.FolderCodes {
		for _, e := range m.Entries {
			if slices.Contains(e.IncludedFolders, folder) {
				out = append(out, NewRecord(cols, []string{folder, e.FormCode}))
			}
		}
	}
	return out
}

// ListMatrices describes the available matrix sheets.
func ListMatrices(sheets []MatrixSheet) []MatrixInfo {
	out := make([]MatrixInfo, len(sheets))
	for i, s := range sheets {
		out[i] = MatrixInfo{OID: s.OID(), Sheet: s.SheetName}
	}
	return out
}

// DefaultMatrix returns the OID SelectMatrix would choose with no explicit
// oid, or "" for an empty list.
func DefaultMatrix(matrices []MatrixInfo, preferred string) string {
	if len(matrices) == 0 {
		return ""
	}
	for _, m := range matrices {
		if preferred != "" && strings.EqualFold(m.OID, preferred) {
			return m.OID
		}
	}
	return matrices[0].OID
}

// SelectMatrix picks the sheet matching oid (case-insensitive). With no oid it
// prefers preferred, then the first sheet.
func SelectMatrix(sheets []MatrixSheet, oid, preferred string) (MatrixSheet, error) {
	if len(sheets) == 0 {
		return MatrixSheet{}, ErrNoMatrix
	}

	oid = strings.TrimSpace(oid)
	if oid != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.OID(), oid) || strings.EqualFold(s.SheetName, oid) {
				return s, nil
			}
		}
		return MatrixSheet{}, fmt.Errorf("%w: %s", ErrMatrixNotFound, oid)
	}

	if preferred != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.OID(), preferred) {
				return s, nil
			}
		}
	}
	return sheets[0], nil
}
