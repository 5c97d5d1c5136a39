package core

import "strings"

// Preview limits.
const (
	PreviewMaxLines = 500
	PreviewPageSize = 10
)

// PreviewPage is one page of an SSD preview.
type PreviewPage struct {
	Page       int      `json:"page"`
	TotalPages int      `json:"totalPages"`
	TotalLines int      `json:"totalLines"`
	Lines      []string `json:"lines"`
}

// PreviewLines returns the first PreviewMaxLines lines of text. A final line
// break does not start another line.
func PreviewLines(text string) []string {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return []string{}
	}
	lines := strings.Split(text, "\n")
	if len(lines) > PreviewMaxLines {
		lines = lines[:PreviewMaxLines]
	}
	return lines
}

// Paginate returns page (1-based) of lines. Out-of-range pages are clamped.
func Paginate(lines []string, page int) PreviewPage {
	total := (len(lines) + PreviewPageSize - 1) / PreviewPageSize
	if total < 1 {
		total = 1
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	start := (page - 1) * PreviewPageSize
	end := start + PreviewPageSize
	if end > len(lines) {
		end = len(lines)
	}
	out := make([]string, 0, end-start)
	out = append(out, lines[start:end]...)

	return PreviewPage{
		Page:       page,
		TotalPages: total,
		TotalLines: len(lines),
		Lines:      out,
	}
}
