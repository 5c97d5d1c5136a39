package workbook

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGrid(t *testing.T) {
	g := NewGrid().
		AddSheet("Forms", [][]string{{"FormOID"}, {"DM"}}).
		AddSheet("Matrix#MAIN", [][]string{{"FormOID", "SCREEN"}})
	g.AddSheet("Forms", [][]string{{"FormOID"}, {"AE"}})

	if diff := cmp.Diff([]string{"Forms", "Matrix#MAIN"}, g.SheetNames()); diff != "" {
		t.Errorf("sheet names (-want +got):\n%s", diff)
	}
	rows, err := g.Rows("Forms")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]string{{"FormOID"}, {"AE"}}, rows); diff != "" {
		t.Errorf("replaced rows (-want +got):\n%s", diff)
	}
	if _, err := g.Rows("Nope"); err == nil {
		t.Error("missing sheet returned no error")
	}
	if diff := cmp.Diff([][]string{{"FormOID"}, {"AE"}}, g.FirstSheet()); diff != "" {
		t.Errorf("first sheet (-want +got):\n%s", diff)
	}
	if NewGrid().FirstSheet() != nil {
		t.Error("empty grid has a first sheet")
	}
}

func TestEncodeRead(t *testing.T) {
	g := NewGrid().
		AddSheet("Matrix#MASTERDASHBOARD", [][]string{
			{"Matrix: MASTERDASHBOARD"},
			{"", "SCREEN", "WEEK1"},
			{"DM", "X", "X"},
			{"AE", "X"},
		}).
		AddSheet("Folders", [][]string{
			{"OID", "Name"},
			{"SCREEN", "Screening, Day 1"},
		})

	data, err := Encode(g)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if diff := cmp.Diff(g.SheetNames(), got.SheetNames()); diff != "" {
		t.Errorf("sheet names (-want +got):\n%s", diff)
	}
	for _, name := range g.SheetNames() {
		want, _ := g.Rows(name)
		rows, err := got.Rows(name)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, rows); diff != "" {
			t.Errorf("sheet %s (-want +got):\n%s", name, diff)
		}
	}
}

func TestRead_Invalid(t *testing.T) {
	if _, err := Read([]byte("FolderOID,FormOID\n")); !errors.Is(err, ErrInvalidWorkbook) {
		t.Errorf("err = %v, want ErrInvalidWorkbook", err)
	}
}
