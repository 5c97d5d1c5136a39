// Package workbook adapts spreadsheet files to the core.Workbook interface.
//
// XLSX decoding is done by excelize. Sheets are read eagerly so the returned
// values hold no file handles and are safe for concurrent reads.
package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidWorkbook is returned when the input cannot be decoded.
var ErrInvalidWorkbook = errors.New("invalid workbook")

// Grid is an in-memory workbook: ordered sheet names with string rows.
type Grid struct {
	names []string
	rows  map[string][][]string
}

// NewGrid returns an empty Grid.
func NewGrid() *Grid {
	return &Grid{rows: make(map[string][][]string)}
}

// AddSheet appends a sheet, replacing rows if the name already exists.
func (g *Grid) AddSheet(name string, rows [][]string) *Grid {
	if _, ok := g.rows[name]; !ok {
		g.names = append(g.names, name)
	}
	g.rows[name] = rows
	return g
}

// SheetNames returns sheet names in workbook order.
func (g *Grid) SheetNames() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Rows returns the rows of sheet.
func (g *Grid) Rows(sheet string) ([][]string, error) {
	rows, ok := g.rows[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q does not exist", sheet)
	}
	return rows, nil
}

// FirstSheet returns the rows of the first sheet, or nil for an empty grid.
func (g *Grid) FirstSheet() [][]string {
	if len(g.names) == 0 {
		return nil
	}
	return g.rows[g.names[0]]
}

// Read decodes XLSX bytes into a Grid.
func Read(data []byte) (*Grid, error) {
	return Open(bytes.NewReader(data))
}

// Open decodes an XLSX stream into a Grid.
func Open(r io.Reader) (*Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	g := NewGrid()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet %q: %v", ErrInvalidWorkbook, name, err)
		}
		g.AddSheet(name, rows)
	}
	return g, nil
}

// Encode writes g as an XLSX document. Sheet order is preserved.
func Encode(g *Grid) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range g.names {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("rename sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
		for r, row := range g.rows[name] {
			cellName, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return nil, err
			}
			values := make([]any, len(row))
			for c, v := range row {
				values[c] = v
			}
			if err := f.SetSheetRow(name, cellName, &values); err != nil {
				return nil, fmt.Errorf("write sheet %q row %d: %w", name, r+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
