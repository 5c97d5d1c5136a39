package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/matrixdiff/internal/core"
	"github.com/JonMunkholm/matrixdiff/internal/workbook"
)

func writeALS(t *testing.T) string {
	t.Helper()
	g := workbook.NewGrid().
		AddSheet("Matrix#MASTERDASHBOARD", [][]string{
			{"FormOID", "SCREEN", "WEEK1"},
			{"DM", "X", "X"},
			{"AE", "X", ""},
		}).
		AddSheet("Matrix#LOGS", [][]string{
			{"FormOID", "LOGS"},
			{"CM", "X"},
		}).
		AddSheet("Folders", [][]string{
			{"OID", "Name"},
			{"SCREEN", "Screening"},
			{"WEEK1", "Week 1"},
		}).
		AddSheet("Fields", [][]string{
			{"FormOID", "FieldOID", "Ordinal", "PreText", "DataDictionaryName", "IsRequired", "ViewRestrictions", "EntryRestrictions"},
			{"DM", "SEX", "2", "Sex", "SEX", "TRUE", "", "Monitor"},
			{"DM", "SITENOTE", "1", "Site note", "", "", "Monitor", ""},
		})
	data, err := workbook.Encode(g)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "study.xlsx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMatricesCommand(t *testing.T) {
	out, err := run(t, "", "matrices", writeALS(t))
	if err != nil {
		t.Fatalf("matrices: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "MASTERDASHBOARD") || !strings.HasSuffix(lines[1], "*") {
		t.Errorf("default row = %q", lines[1])
	}
}

func TestHierarchyCommand(t *testing.T) {
	out, err := run(t, "", "hierarchy", writeALS(t))
	if err != nil {
		t.Fatalf("hierarchy: %v", err)
	}
	want := "FolderName,FolderOID,FormName,FormOID\n" +
		`"Screening","SCREEN","","DM"` + "\n" +
		`"Screening","SCREEN","","AE"` + "\n" +
		`"Week 1","WEEK1","","DM"` + "\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("hierarchy (-want +got):\n%s", diff)
	}
}

func TestHierarchyCommandOtherMatrix(t *testing.T) {
	out, err := run(t, "", "hierarchy", "--matrix", "logs", writeALS(t))
	if err != nil {
		t.Fatalf("hierarchy: %v", err)
	}
	if !strings.Contains(out, `"LOGS","","CM"`) {
		t.Errorf("output = %q", out)
	}
}

func TestCompareCommandStdin(t *testing.T) {
	ssd := "FolderOID\tFormOID\nSCREEN\tDM\nWEEK1\tDM\nWEEK1\tVS\n"
	out, err := run(t, ssd, "compare", writeALS(t), "-")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	want := strings.Join(core.DiffReportColumns, ",") + "\n" +
		`"Missing","","WEEK1","","VS","SSD","Present in SSD only"` + "\n" +
		`"Extra","Screening","SCREEN","","AE","ALS","Present in ALS only"` + "\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("report (-want +got):\n%s", diff)
	}
}

func TestCompareCommandOutFile(t *testing.T) {
	dir := t.TempDir()
	ssdPath := filepath.Join(dir, "ssd.json")
	if err := os.WriteFile(ssdPath, []byte(`{"SCREEN":["DM","AE"],"WEEK1":["DM"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "report.csv")

	if _, err := run(t, "", "compare", writeALS(t), ssdPath, "--out", outPath); err != nil {
		t.Fatalf("compare: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != strings.Join(core.DiffReportColumns, ",")+"\n" {
		t.Errorf("report = %q, want header only", got)
	}
}

func TestCompareCommandUnrecognized(t *testing.T) {
	_, err := run(t, "42", "compare", writeALS(t), "-")
	if !errors.Is(err, core.ErrUnrecognizedCandidate) {
		t.Fatalf("err = %v, want ErrUnrecognizedCandidate", err)
	}
}

func TestCompareCommandBOMOnlyStdin(t *testing.T) {
	_, err := run(t, "\ufeff \n", "compare", writeALS(t), "-")
	if !errors.Is(err, core.ErrUnrecognizedCandidate) {
		t.Fatalf("err = %v, want ErrUnrecognizedCandidate", err)
	}
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "catalogued",
			err:  fmt.Errorf("%w: LOGS", core.ErrMatrixNotFound),
			want: core.FormatUserError(core.ErrMatrixNotFound) + "\n",
		},
		{
			name: "uncatalogued carries detail",
			err:  errors.New("accepts 1 arg(s), received 0"),
			want: "An unexpected error occurred (Code: ERR000). Please try again or contact support\n" +
				"detail: accepts 1 arg(s), received 0\n",
		},
		{
			name: "nil",
			err:  nil,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestReportErrorArgumentMistake(t *testing.T) {
	_, err := run(t, "", "matrices")
	if err == nil {
		t.Fatal("matrices without a file succeeded")
	}
	var buf bytes.Buffer
	reportError(&buf, err)
	if !strings.Contains(buf.String(), "detail: accepts 1 arg(s), received 0") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRolesCommand(t *testing.T) {
	out, err := run(t, "", "roles", writeALS(t))
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if diff := cmp.Diff("All\nMonitor\n", out); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFieldsCommand(t *testing.T) {
	out, err := run(t, "", "fields", writeALS(t), "dm", "--role", "Monitor")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if got := strings.Fields(lines[1]); !cmp.Equal([]string{"2", "*SEX", "Sex", "SEX", "RESTRICTED"}, got) {
		t.Errorf("row = %q", got)
	}
}
