package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mapOf(pairs ...string) FolderFormMap {
	m := NewFolderFormMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Add(pairs[i], pairs[i+1])
	}
	return m
}

func TestDiff_Identical(t *testing.T) {
	maps := []FolderFormMap{
		NewFolderFormMap(),
		mapOf("F1", "A"),
		mapOf("F1", "A", "F1", "B", "F2", "C", "F3", "A"),
	}
	for _, m := range maps {
		d := Diff(m, m)
		if !d.Empty() || d.MissingInTarget.Len() != 0 || d.ExtraInTarget.Len() != 0 {
			t.Errorf("Diff(M, M) for %v = %v / %v, want empty", m.ToMap(), d.MissingInTarget.ToMap(), d.ExtraInTarget.ToMap())
		}
	}
}

func TestDiff_Asymmetry(t *testing.T) {
	reference := mapOf("F1", "A", "F1", "B")
	candidate := mapOf("F1", "B", "F1", "C")

	d := Diff(reference, candidate)
	if diff := cmp.Diff(map[string][]string{"F1": {"C"}}, d.MissingInTarget.ToMap()); diff != "" {
		t.Errorf("missing (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string][]string{"F1": {"A"}}, d.ExtraInTarget.ToMap()); diff != "" {
		t.Errorf("extra (-want +got):\n%s", diff)
	}
}

func TestDiff_SortedAndDriverOrder(t *testing.T) {
	reference := mapOf("R2", "Z", "R1", "Y", "SHARED", "K")
	candidate := mapOf("C1", "Q", "C1", "B", "C1", "M", "SHARED", "K")

	d := Diff(reference, candidate)
	if diff := cmp.Diff([]string{"C1"}, d.MissingInTarget.Folders()); diff != "" {
		t.Errorf("missing folders (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B", "M", "Q"}, d.MissingInTarget.Forms("C1")); diff != "" {
		t.Errorf("missing forms not sorted (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"R2", "R1"}, d.ExtraInTarget.Folders()); diff != "" {
		t.Errorf("extra folders (-want +got):\n%s", diff)
	}
}

func TestDiff_NoEmptyEntries(t *testing.T) {
	cases := []struct{ reference, candidate FolderFormMap }{
		{mapOf("F1", "A", "F2", "B"), mapOf("F1", "A")},
		{mapOf("F1", "A"), mapOf("F1", "A", "F2", "B")},
		{mapOf("F1", "A", "F1", "B"), mapOf("F1", "B", "F1", "A")},
		{NewFolderFormMap(), mapOf("F1", "A")},
		{mapOf("F1", "A"), NewFolderFormMap()},
	}
	for _, c := range cases {
		d := Diff(c.reference, c.candidate)
		for _, side := range []FolderFormMap{d.MissingInTarget, d.ExtraInTarget} {
			for _, folder := range side.Folders() {
				if len(side.Forms(folder)) == 0 {
					t.Errorf("folder %s mapped to empty list in %v", folder, side.ToMap())
				}
			}
		}
	}
}
