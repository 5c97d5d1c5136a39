package core

// export.go renders diff and hierarchy reports as CSV.
//
// Every data field is quoted, including codes, so names containing commas or
// quotes never shift columns when the report is opened in Excel.

import "strings"

// Report column orders.
var (
	DiffReportColumns      = []string{"Type", "FolderName", "FolderOID", "FormName", "FormOID", "Source", "Comment"}
	HierarchyReportColumns = []string{"FolderName", "FolderOID", "FormName", "FormOID"}
)

// Report file names offered for download.
const (
	DiffReportFileName      = "SSD_Compare_Results_Detailed.csv"
	HierarchyReportFileName = "ALS_Matrix_FolderForms.csv"
)

// RenderCSV renders a header line followed by fully quoted data rows.
func RenderCSV(rows [][]string, columns []string) string {
	var b strings.Builder
	b.WriteString(strings.Join(columns, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		for i := range columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteField(cell(row, i)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// DiffReportRows builds report rows: all Missing rows, then all Extra rows.
func DiffReportRows(diff DiffResult, reference, candidate NameSet) [][]string {
	var rows [][]string
	emit := func(side Side, m FolderFormMap) {
		typ, source, comment := "Extra", "ALS", "Present in ALS only"
		if side == SideMissing {
			typ, source, comment = "Missing", "SSD", "Present in SSD only"
		}
		for _, folder := range m.Folders() {
			folderName := ResolveDisplayName(folder, side, reference.Folders, candidate.Folders)
			for _, form := range m.Forms(folder) {
				formName := ResolveDisplayName(form, side, reference.Forms, candidate.Forms)
				rows = append(rows, []string{typ, folderName, folder, formName, form, source, comment})
			}
		}
	}
	emit(SideMissing, diff.MissingInTarget)
	emit(SideExtra, diff.ExtraInTarget)
	return rows
}

// RenderDiffReport renders the annotated diff report.
func RenderDiffReport(diff DiffResult, reference, candidate NameSet) string {
	return RenderCSV(DiffReportRows(diff, reference, candidate), DiffReportColumns)
}

// HierarchyReportRows lists every (folder, form) pair of the selected folders
// in master order.
func HierarchyReportRows(h *Hierarchy, sel Selection) [][]string {
	if h == nil {
		return nil
	}
	var rows [][]string
	for _, f := range VisibleFolders(h, sel) {
		for _, fm := range f.Forms {
			rows = append(rows, []string{f.Name, f.OID, fm.Name, fm.OID})
		}
	}
	return rows
}

// RenderHierarchyReport renders the selected master hierarchy.
func RenderHierarchyReport(h *Hierarchy, sel Selection) string {
	return RenderCSV(HierarchyReportRows(h, sel), HierarchyReportColumns)
}
