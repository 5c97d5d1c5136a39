package core

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPreviewLines(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, PreviewLines(tt.input)); diff != "" {
			t.Errorf("PreviewLines(%q) (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestPreviewLines_Capped(t *testing.T) {
	var text string
	for i := range PreviewMaxLines + 20 {
		text += strconv.Itoa(i) + "\n"
	}
	lines := PreviewLines(text)
	if len(lines) != PreviewMaxLines {
		t.Fatalf("got %d lines, want %d", len(lines), PreviewMaxLines)
	}
	if lines[PreviewMaxLines-1] != strconv.Itoa(PreviewMaxLines-1) {
		t.Errorf("last line = %q", lines[PreviewMaxLines-1])
	}
}

func TestPaginate(t *testing.T) {
	lines := make([]string, 25)
	for i := range lines {
		lines[i] = strconv.Itoa(i)
	}

	tests := []struct {
		name      string
		page      int
		wantPage  int
		wantFirst string
		wantLen   int
	}{
		{"first", 1, 1, "0", 10},
		{"last partial", 3, 3, "20", 5},
		{"below range", 0, 1, "0", 10},
		{"above range", 9, 3, "20", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(lines, tt.page)
			if p.Page != tt.wantPage || p.TotalPages != 3 || p.TotalLines != 25 {
				t.Errorf("page %+v", p)
			}
			if len(p.Lines) != tt.wantLen || p.Lines[0] != tt.wantFirst {
				t.Errorf("lines %v", p.Lines)
			}
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate(nil, 4)
	want := PreviewPage{Page: 1, TotalPages: 1, TotalLines: 0, Lines: []string{}}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
