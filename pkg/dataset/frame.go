package dataset

import (
	"fmt"
	"strconv"
)

// Frame is an ordered, column-named table of string cells. Cells hold the
// raw text form of a value; numeric interpretation happens at the point of
// use. The empty string is the missing-value marker.
type Frame struct {
	Columns []string
	Rows    [][]string
}

func NewFrame(columns []string) *Frame {
	return &Frame{Columns: append([]string(nil), columns...)}
}

func (f *Frame) NumRows() int {
	return len(f.Rows)
}

// AppendRow adds a row; it must match the column count.
func (f *Frame) AppendRow(row []string) error {
	if len(row) != len(f.Columns) {
		return fmt.Errorf("row has %d cells, frame has %d columns", len(row), len(f.Columns))
	}
	f.Rows = append(f.Rows, append([]string(nil), row...))
	return nil
}

func (f *Frame) columnIndex(name string) int {
	for i, col := range f.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

func (f *Frame) HasColumn(name string) bool {
	return f.columnIndex(name) >= 0
}

// Column returns the cells of the named column.
func (f *Frame) Column(name string) ([]string, error) {
	idx := f.columnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %s not found", name)
	}
	out := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Float64Column parses the named column as float64s. Integer-typed text
// parses fine; an empty cell or malformed number is an error.
func (f *Frame) Float64Column(name string) ([]float64, error) {
	cells, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: parsing %q: %w", name, i, cell, err)
		}
		out[i] = v
	}
	return out, nil
}

// Select returns a new frame with only the named columns, in the given
// order.
func (f *Frame) Select(names []string) (*Frame, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		j := f.columnIndex(name)
		if j < 0 {
			return nil, fmt.Errorf("column %s not found", name)
		}
		idx[i] = j
	}
	out := NewFrame(names)
	for _, row := range f.Rows {
		selected := make([]string, len(idx))
		for i, j := range idx {
			selected[i] = row[j]
		}
		out.Rows = append(out.Rows, selected)
	}
	return out, nil
}

// DropColumns returns a new frame without the named columns. Names absent
// from the frame are ignored.
func (f *Frame) DropColumns(names []string) *Frame {
	dropped := make(map[string]struct{}, len(names))
	for _, name := range names {
		dropped[name] = struct{}{}
	}

	var keepIdx []int
	var keepCols []string
	for i, col := range f.Columns {
		if _, ok := dropped[col]; !ok {
			keepIdx = append(keepIdx, i)
			keepCols = append(keepCols, col)
		}
	}

	out := NewFrame(keepCols)
	for _, row := range f.Rows {
		kept := make([]string, len(keepIdx))
		for i, j := range keepIdx {
			kept[i] = row[j]
		}
		out.Rows = append(out.Rows, kept)
	}
	return out
}

// AppendColumn adds a column at the end; values must match the row count.
func (f *Frame) AppendColumn(name string, values []string) error {
	if len(values) != len(f.Rows) {
		return fmt.Errorf("column %s has %d values, frame has %d rows", name, len(values), len(f.Rows))
	}
	if f.HasColumn(name) {
		return fmt.Errorf("column %s already present", name)
	}
	f.Columns = append(f.Columns, name)
	for i := range f.Rows {
		f.Rows[i] = append(f.Rows[i], values[i])
	}
	return nil
}
