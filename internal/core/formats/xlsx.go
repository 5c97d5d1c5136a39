package formats

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/JonMunkholm/matrixdiff/internal/core"
	"github.com/JonMunkholm/matrixdiff/internal/workbook"
)

func init() {
	core.RegisterFormat(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:        "xlsx",
			Label:      "Excel",
			Extensions: []string{".xlsx"},
		},
		Decode: decodeXLSX,
	})
}

// decodeXLSX reads the first worksheet only.
func decodeXLSX(data []byte) (core.Candidate, error) {
	g, err := workbook.Read(data)
	if err != nil {
		return core.Candidate{}, err
	}
	rows := g.FirstSheet()
	c := core.CandidateFromRecords(core.ParseRows(rows))
	c.Lines = previewRows(rows)
	return c, nil
}

// previewRows renders rows as CSV lines, capped like text previews.
func previewRows(rows [][]string) []string {
	if len(rows) > core.PreviewMaxLines {
		rows = rows[:core.PreviewMaxLines]
	}
	lines := make([]string, 0, len(rows))
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		buf.Reset()
		_ = w.Write(row)
		w.Flush()
		lines = append(lines, strings.TrimRight(buf.String(), "\r\n"))
	}
	return lines
}
