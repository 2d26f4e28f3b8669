package dataset

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// matrixMagic guards against loading a file written by something else.
const matrixMagic = uint32(0x4d585452) // "MXTR"

// Matrix is a dense row-major float64 matrix. By pipeline convention the
// last column of a labelled matrix is the label.
type Matrix struct {
	Rows int
	Cols int
	Data []float64 // len == Rows*Cols
}

func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

func (m *Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

func (m *Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

// Row returns a view of row i.
func (m *Matrix) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// SplitLabel separates the final column from the feature columns.
func (m *Matrix) SplitLabel() (features [][]float64, labels []float64) {
	features = make([][]float64, m.Rows)
	labels = make([]float64, m.Rows)
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		features[i] = row[:m.Cols-1]
		labels[i] = row[m.Cols-1]
	}
	return features, labels
}

// FromRows builds a labelled matrix from feature rows plus a label vector,
// label as the final column.
func FromRows(features [][]float64, labels []float64) (*Matrix, error) {
	if len(features) != len(labels) {
		return nil, fmt.Errorf("feature rows (%d) and labels (%d) differ", len(features), len(labels))
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("empty matrix")
	}
	cols := len(features[0]) + 1
	m := NewMatrix(len(features), cols)
	for i, row := range features {
		if len(row) != cols-1 {
			return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(row), cols-1)
		}
		copy(m.Row(i), row)
		m.Set(i, cols-1, labels[i])
	}
	return m, nil
}

// WriteMatrix persists the matrix in the binary array format: magic,
// int64 rows, int64 cols, then row-major little-endian float64 cells.
func WriteMatrix(path string, m *Matrix) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	buf := make([]byte, 4+8+8+8*len(m.Data))
	binary.LittleEndian.PutUint32(buf[0:], matrixMagic)
	binary.LittleEndian.PutUint64(buf[4:], uint64(m.Rows))
	binary.LittleEndian.PutUint64(buf[12:], uint64(m.Cols))
	for i, v := range m.Data {
		binary.LittleEndian.PutUint64(buf[20+8*i:], math.Float64bits(v))
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadMatrix loads a matrix written by WriteMatrix.
func ReadMatrix(path string) (*Matrix, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(raw) < 20 {
		return nil, fmt.Errorf("reading %s: truncated header", path)
	}
	if binary.LittleEndian.Uint32(raw[0:]) != matrixMagic {
		return nil, fmt.Errorf("reading %s: not a matrix file", path)
	}
	rows := int(binary.LittleEndian.Uint64(raw[4:]))
	cols := int(binary.LittleEndian.Uint64(raw[12:]))
	if rows < 0 || cols < 0 || len(raw) != 20+8*rows*cols {
		return nil, fmt.Errorf("reading %s: size mismatch for %dx%d", path, rows, cols)
	}

	m := NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[20+8*i:]))
	}
	return m, nil
}
