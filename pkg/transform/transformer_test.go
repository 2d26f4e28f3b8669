package transform

import (
	"path/filepath"
	"testing"

	"github.com/recovera-ai/platform/pkg/dataset"
	"github.com/recovera-ai/platform/pkg/schema"
)

func testSchema() *schema.Schema {
	return &schema.Schema{
		ColumnDtypes: map[string]string{
			"Age":            "int",
			"Monthly_Income": "float",
			"Gender":         "str",
		},
		RequiredColumns: []string{"Age", "Gender", "Monthly_Income"},
		TargetColumn:    "High_Risk_Flag",
	}
}

func testFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f := dataset.NewFrame([]string{"Age", "Gender", "Monthly_Income"})
	rows := [][]string{
		{"30", "Male", "40000"},
		{"40", "Female", "60000"},
		{"50", "Male", "80000"},
	}
	for _, row := range rows {
		if err := f.AppendRow(row); err != nil {
			t.Fatalf("fixture: %v", err)
		}
	}
	return f
}

func TestFitTransformShapeAndOrder(t *testing.T) {
	tr, err := Fit(testFrame(t), testSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names, err := tr.OutputNames()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// numeric block in schema order, then indicator blocks
	want := []string{"Age", "Monthly_Income", "Gender=Female", "Gender=Male"}
	if len(names) != len(want) {
		t.Fatalf("unexpected output names %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected output names %v", names)
		}
	}

	out, err := tr.Transform(testFrame(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 || len(out[0]) != tr.Width() {
		t.Fatalf("unexpected output shape %dx%d", len(out), len(out[0]))
	}
	// middle row: mean age/income scale to zero, Gender=Female fires
	if out[1][0] != 0 || out[1][1] != 0 || out[1][2] != 1 || out[1][3] != 0 {
		t.Fatalf("unexpected middle row %v", out[1])
	}
}

func TestTransformerPersistRoundTrip(t *testing.T) {
	tr, err := Fit(testFrame(t), testSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "transformer.json")
	if err := Save(path, tr); err != nil {
		t.Fatalf("saving transformer: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("loading transformer: %v", err)
	}

	want, err := tr.Transform(testFrame(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := loaded.Transform(testFrame(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range want {
		for j := range want[i] {
			if want[i][j] != got[i][j] {
				t.Fatalf("reloaded transformer diverges at (%d,%d): %v vs %v", i, j, want[i][j], got[i][j])
			}
		}
	}
}

func TestTransformMissingColumn(t *testing.T) {
	tr, err := Fit(testFrame(t), testSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	partial := dataset.NewFrame([]string{"Age", "Gender"})
	if err := partial.AppendRow([]string{"30", "Male"}); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	_, err = tr.Transform(partial)
	if !IsMissingColumn(err) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
}

func TestTransformUnknownCategoryEncodesZeros(t *testing.T) {
	tr, err := Fit(testFrame(t), testSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := dataset.NewFrame([]string{"Age", "Gender", "Monthly_Income"})
	if err := f.AppendRow([]string{"40", "Other", "60000"}); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	out, err := tr.Transform(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0][2] != 0 || out[0][3] != 0 {
		t.Fatalf("unknown category must encode as zeros, got %v", out[0])
	}
}
