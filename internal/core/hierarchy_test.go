package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// alsWorkbook returns a small ALS export with two matrices and metadata
// sheets.
func alsWorkbook() *gridWorkbook {
	return newGridWorkbook().
		add("Folders",
			[]string{"OID", "Name"},
			[]string{"screen", "Screening"},
			[]string{"WEEK1", "Week 1"},
		).
		add("Forms",
			[]string{"FormOID", "FormName"},
			[]string{"DM", "Demographics"},
			[]string{"VS", "Vital Signs"},
		).
		add("Matrix#LOGS",
			[]string{"FormOID", "LOG"},
			[]string{"CM", "X"},
		).
		add("Matrix#MASTERDASHBOARD",
			[]string{"Matrix: MASTERDASHBOARD"},
			[]string{"", "SCREEN", "WEEK1", "UNUSED"},
			[]string{"DM", "X", "x", ""},
			[]string{"AE", "X", "", ""},
			[]string{"VS", "", "X", ""},
		)
}

func TestBuildHierarchy(t *testing.T) {
	h, sheets, err := BuildHierarchy(alsWorkbook(), HierarchyOptions{})
	if err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}
	if len(sheets) != 2 {
		t.Errorf("got %d matrix sheets, want 2", len(sheets))
	}

	want := &Hierarchy{
		MatrixOID: "MASTERDASHBOARD",
		SheetName: "Matrix#MASTERDASHBOARD",
		Folders: []Folder{
			{OID: "SCREEN", Name: "Screening", Forms: []Form{{OID: "DM", Name: "Demographics"}, {OID: "AE"}}},
			{OID: "WEEK1", Name: "Week 1", Forms: []Form{{OID: "DM", Name: "Demographics"}, {OID: "VS", Name: "Vital Signs"}}},
		},
	}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("hierarchy mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"SCREEN", "WEEK1"}, h.FolderCodes()); diff != "" {
		t.Errorf("FolderCodes (-want +got):\n%s", diff)
	}
	if got := h.FormCount(); got != 4 {
		t.Errorf("FormCount = %d, want 4", got)
	}
	m := h.FolderFormMap()
	if !m.Has("WEEK1", "VS") || m.Has("SCREEN", "VS") || m.Pairs() != 4 {
		t.Errorf("FolderFormMap = %v", m.ToMap())
	}
	names := h.Names()
	if names.Folders["SCREEN"] != "Screening" || names.Forms["AE"] != "" {
		t.Errorf("Names = %+v", names)
	}
}

func TestBuildHierarchy_ExplicitMatrix(t *testing.T) {
	h, _, err := BuildHierarchy(alsWorkbook(), HierarchyOptions{MatrixOID: "logs"})
	if err != nil {
		t.Fatal(err)
	}
	if h.MatrixOID != "LOGS" || len(h.Folders) != 1 || h.Folders[0].OID != "LOG" {
		t.Errorf("got %+v", h)
	}
}

func TestBuildHierarchy_Errors(t *testing.T) {
	if _, _, err := BuildHierarchy(alsWorkbook(), HierarchyOptions{MatrixOID: "NOPE"}); !errors.Is(err, ErrMatrixNotFound) {
		t.Errorf("unknown matrix err = %v", err)
	}

	noMatrix := newGridWorkbook().add("Forms", []string{"FormOID"}, []string{"DM"})
	if _, _, err := BuildHierarchy(noMatrix, HierarchyOptions{}); !errors.Is(err, ErrNoMatrix) {
		t.Errorf("no matrix err = %v", err)
	}

	if _, _, err := BuildHierarchy(nil, HierarchyOptions{}); !errors.Is(err, ErrNoWorkbook) {
		t.Errorf("nil workbook err = %v", err)
	}
}

// brokenSheetWorkbook fails to read one sheet.
type brokenSheetWorkbook struct {
	*gridWorkbook
	broken string
}

func (b brokenSheetWorkbook) Rows(sheet string) ([][]string, error) {
	if sheet == b.broken {
		return nil, errors.New("corrupt sheet")
	}
	return b.gridWorkbook.Rows(sheet)
}

func TestBuildHierarchy_UnreadableNameSheet(t *testing.T) {
	wb := brokenSheetWorkbook{gridWorkbook: alsWorkbook(), broken: "Forms"}

	h, _, err := BuildHierarchy(wb, HierarchyOptions{})
	if err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}
	want := []Folder{
		{OID: "SCREEN", Name: "Screening", Forms: []Form{{OID: "DM"}, {OID: "AE"}}},
		{OID: "WEEK1", Name: "Week 1", Forms: []Form{{OID: "DM"}, {OID: "VS"}}},
	}
	if diff := cmp.Diff(want, h.Folders); diff != "" {
		t.Errorf("folders (-want +got):\n%s", diff)
	}
}

func TestFindSheet(t *testing.T) {
	names := []string{"Matrix#Folders", "Study Folders", "folder"}
	if got, ok := findSheet(names, []string{"Folders", "Folder"}); !ok || got != "folder" {
		t.Errorf("exact match = %q, %v", got, ok)
	}
	if got, ok := findSheet(names[:2], []string{"Folders"}); !ok || got != "Study Folders" {
		t.Errorf("substring match = %q, %v", got, ok)
	}
	if _, ok := findSheet([]string{"Matrix#Forms"}, []string{"Forms"}); ok {
		t.Error("matrix sheet used for metadata")
	}
}

func TestVisibleFolders(t *testing.T) {
	h := &Hierarchy{Folders: []Folder{{OID: "A"}, {OID: "B"}, {OID: "C"}}}
	got := VisibleFolders(h, Selection{Selected: []string{"C", "A"}})
	if len(got) != 2 || got[0].OID != "A" || got[1].OID != "C" {
		t.Errorf("VisibleFolders = %+v", got)
	}
	if VisibleFolders(nil, Selection{}) != nil {
		t.Error("nil hierarchy should yield nil")
	}
}
