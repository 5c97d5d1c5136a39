package core

// tabular.go turns pasted or uploaded delimited text into header-keyed records.
//
// Parsing is best-effort: malformed input produces fewer records, never an
// error. The first non-blank line is the header; rows whose fields are all
// blank are dropped.

import (
	"encoding/csv"
	"strings"
)

// ParseDelimited parses delimited text into records. The delimiter is a comma
// unless the header line has tabs and no commas, as in text copied from a
// spreadsheet. Quoted fields may contain the delimiter, line breaks and
// doubled quotes. A quote that is never closed affects only its own line.
func ParseDelimited(text string) []Record {
	return ParseRows(readDelimited(text))
}

// ParseRows applies header detection and blank-row filtering to rows of cells,
// such as the first worksheet of a workbook.
func ParseRows(rows [][]string) []Record {
	start := -1
	for i, row := range rows {
		if !isEmptyRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return []Record{}
	}

	header := make([]string, len(rows[start]))
	for i, h := range rows[start] {
		header[i] = strings.TrimSpace(h)
	}

	records := make([]Record, 0, len(rows)-start-1)
	for _, row := range rows[start+1:] {
		if isEmptyRow(row) {
			continue
		}
		records = append(records, NewRecord(header, row))
	}
	return records
}

// readDelimited splits text into rows of fields. Reading stops at the first
// unrecoverable syntax error in a record; other records are kept.
func readDelimited(text string) [][]string {
	text = string(CleanBytes([]byte(text)))
	comma := detectDelimiter(text)

	var rows [][]string
	for _, rec := range splitRecords(text, comma) {
		r := csv.NewReader(strings.NewReader(rec))
		r.Comma = comma
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		// A tab is whitespace to TrimLeadingSpace, which would merge empty
		// cells. NewRecord trims values either way.
		r.TrimLeadingSpace = comma != '\t'
		for {
			row, err := r.Read()
			if row != nil {
				rows = append(rows, row)
			}
			if err != nil {
				break
			}
		}
	}
	return rows
}

// splitRecords cuts text into chunks holding one record each. A quoted field
// spans lines only up to its closing quote; a quote that is never closed ends
// with its own line.
func splitRecords(text string, comma rune) []string {
	lines := strings.SplitAfter(text, "\n")
	recs := make([]string, 0, len(lines))
	for i := 0; i < len(lines); {
		end, closed := recordEnd(lines, i, comma)
		if !closed {
			recs = append(recs, strings.TrimRight(lines[i], "\r\n"))
			i++
			continue
		}
		if rec := strings.Join(lines[i:end+1], ""); rec != "" {
			recs = append(recs, rec)
		}
		i = end + 1
	}
	return recs
}

// recordEnd returns the index of the line that ends the record starting at
// lines[start]. closed is false when a quoted field runs to end of input.
func recordEnd(lines []string, start int, comma rune) (end int, closed bool) {
	inQuote, fieldStart := false, true
	for i := start; i < len(lines); i++ {
		line := lines[i]
		for j := 0; j < len(line); j++ {
			c := line[j]
			switch {
			case inQuote:
				if c != '"' {
					continue
				}
				if j+1 < len(line) && line[j+1] == '"' {
					j++
					continue
				}
				if j+1 == len(line) || endsField(line[j+1], comma) {
					inQuote = false
				}
			case c == '"' && fieldStart:
				inQuote, fieldStart = true, false
			case rune(c) == comma:
				fieldStart = true
			case (c == ' ' || c == '\t') && comma != '\t' && fieldStart:
				// Leading space before an opening quote.
			default:
				fieldStart = false
			}
		}
		if !inQuote {
			return i, true
		}
	}
	return len(lines) - 1, false
}

func endsField(c byte, comma rune) bool {
	return rune(c) == comma || c == '\r' || c == '\n'
}

// detectDelimiter inspects the first non-blank line.
func detectDelimiter(text string) rune {
	for line := range strings.Lines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, "\t") && !strings.Contains(line, ",") {
			return '\t'
		}
		break
	}
	return ','
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
