package core

import "testing"

func TestResolveDisplayName(t *testing.T) {
	reference := NameMap{"SCREEN": "Screening", "WEEK1": "Week 1", "BLANK": ""}
	candidate := NameMap{"SCREEN": "Screen (SSD)", "BLANK": "from ssd", "NEW": ""}

	tests := []struct {
		name string
		code string
		side Side
		want string
	}{
		{"missing prefers candidate", "SCREEN", SideMissing, "Screen (SSD)"},
		{"extra prefers reference", "SCREEN", SideExtra, "Screening"},
		{"missing falls back to reference", "WEEK1", SideMissing, "Week 1"},
		{"extra falls back to candidate", "NEW", SideExtra, ""},
		{"present empty name wins", "BLANK", SideExtra, ""},
		{"present empty candidate wins", "NEW", SideMissing, ""},
		{"unknown code", "NOPE", SideMissing, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveDisplayName(tt.code, tt.side, reference, candidate); got != tt.want {
				t.Errorf("ResolveDisplayName(%q, %s) = %q, want %q", tt.code, tt.side, got, tt.want)
			}
		})
	}
}

func TestResolveDisplayName_NilMaps(t *testing.T) {
	if got := ResolveDisplayName("X", SideMissing, nil, nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
