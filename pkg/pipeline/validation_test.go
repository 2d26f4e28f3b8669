package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/recovera-ai/platform/pkg/artifact"
	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/dataset"
	"github.com/recovera-ai/platform/pkg/schema"
)

func validationSchema() *schema.Schema {
	return &schema.Schema{
		ColumnDtypes: map[string]string{
			"Age":            "int",
			"Gender":         "str",
			"Monthly_Income": "float",
		},
		RequiredColumns: []string{"Age", "Gender", "Monthly_Income"},
		TargetColumn:    "High_Risk_Flag",
	}
}

func writeTable(t *testing.T, columns []string, rows [][]string) artifact.IngestionArtifact {
	t.Helper()
	frame := dataset.NewFrame(columns)
	for _, row := range rows {
		if err := frame.AppendRow(row); err != nil {
			t.Fatalf("fixture: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "loan.csv")
	if err := dataset.WriteCSV(path, frame); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return artifact.IngestionArtifact{FeatureStorePath: path}
}

func TestValidationPasses(t *testing.T) {
	logger.InitQuiet()
	ingestion := writeTable(t,
		[]string{"Age", "Gender", "Monthly_Income", "High_Risk_Flag", "Extra"},
		[][]string{{"30", "Male", "40000", "0", "x"}},
	)

	result, err := NewValidation(validationSchema()).Run(ingestion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Status {
		t.Fatalf("expected pass, got %q", result.Message)
	}
	if result.Message != validationSuccessMessage {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestValidationListsMissingColumnsInSchemaOrder(t *testing.T) {
	logger.InitQuiet()
	ingestion := writeTable(t,
		[]string{"Gender"},
		[][]string{{"Male"}},
	)

	result, err := NewValidation(validationSchema()).Run(ingestion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status {
		t.Fatal("expected validation failure")
	}
	want := "missing required columns: Age, Monthly_Income, High_Risk_Flag"
	if result.Message != want {
		t.Fatalf("got %q want %q", result.Message, want)
	}
}

func TestValidationEmptyTableOnlyHeaderMatters(t *testing.T) {
	logger.InitQuiet()
	ingestion := writeTable(t,
		[]string{"Age", "Gender", "Monthly_Income", "High_Risk_Flag"},
		nil,
	)

	result, err := NewValidation(validationSchema()).Run(ingestion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Status {
		t.Fatalf("zero-row table with full header must validate, got %q", result.Message)
	}
}

func TestValidationMissingFileIsError(t *testing.T) {
	logger.InitQuiet()
	missing := artifact.IngestionArtifact{FeatureStorePath: filepath.Join(t.TempDir(), "absent.csv")}
	if _, err := NewValidation(validationSchema()).Run(missing); err == nil {
		t.Fatal("expected error for missing feature store file")
	}
}
