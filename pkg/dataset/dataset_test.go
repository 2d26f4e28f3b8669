package dataset

import (
	"path/filepath"
	"testing"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f := NewFrame([]string{"Age", "Gender", "Monthly_Income"})
	rows := [][]string{
		{"34", "Male", "52000"},
		{"51", "Female", "48000.5"},
		{"27", "Female", "31000"},
	}
	for _, row := range rows {
		if err := f.AppendRow(row); err != nil {
			t.Fatalf("appending row: %v", err)
		}
	}
	return f
}

func TestFrameSelectAndDrop(t *testing.T) {
	f := sampleFrame(t)

	selected, err := f.Select([]string{"Monthly_Income", "Age"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if selected.Columns[0] != "Monthly_Income" || selected.Rows[0][1] != "34" {
		t.Fatalf("select returned wrong shape: %+v", selected)
	}

	dropped := f.DropColumns([]string{"Gender", "NotThere"})
	if len(dropped.Columns) != 2 || dropped.HasColumn("Gender") {
		t.Fatalf("drop returned wrong columns: %v", dropped.Columns)
	}
	// original untouched
	if !f.HasColumn("Gender") {
		t.Fatal("drop mutated the source frame")
	}
}

func TestFrameFloat64Column(t *testing.T) {
	f := sampleFrame(t)
	values, err := f.Float64Column("Monthly_Income")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values[1] != 48000.5 {
		t.Fatalf("unexpected value %v", values[1])
	}
	if _, err := f.Float64Column("Gender"); err == nil {
		t.Fatal("expected parse error for categorical column")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	f := sampleFrame(t)
	path := filepath.Join(t.TempDir(), "nested", "loan.csv")
	if err := WriteCSV(path, f); err != nil {
		t.Fatalf("writing csv: %v", err)
	}
	loaded, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(loaded.Columns) != 3 || loaded.NumRows() != 3 {
		t.Fatalf("unexpected shape %dx%d", loaded.NumRows(), len(loaded.Columns))
	}
	if loaded.Rows[2][0] != "27" {
		t.Fatalf("unexpected cell %q", loaded.Rows[2][0])
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	features := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	labels := []float64{0, 1, 0}
	m, err := FromRows(features, labels)
	if err != nil {
		t.Fatalf("building matrix: %v", err)
	}

	path := filepath.Join(t.TempDir(), "train.bin")
	if err := WriteMatrix(path, m); err != nil {
		t.Fatalf("writing matrix: %v", err)
	}
	loaded, err := ReadMatrix(path)
	if err != nil {
		t.Fatalf("reading matrix: %v", err)
	}
	if loaded.Rows != 3 || loaded.Cols != 3 {
		t.Fatalf("unexpected shape %dx%d", loaded.Rows, loaded.Cols)
	}

	gotFeatures, gotLabels := loaded.SplitLabel()
	if gotFeatures[1][0] != 3 || gotLabels[1] != 1 {
		t.Fatalf("split mismatch: %v %v", gotFeatures, gotLabels)
	}
}

func TestReadMatrixRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.bin")
	if err := WriteCSV(path+".csv", sampleFrame(t)); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	if _, err := ReadMatrix(path + ".csv"); err == nil {
		t.Fatal("expected error for non-matrix file")
	}
}
