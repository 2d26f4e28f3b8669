package schema

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleSchema = `
loan_recovery:
  column_dtypes:
    Age: int
    Gender: str
    Monthly_Income: float
  required_columns:
    - Age
    - Gender
    - Monthly_Income
  target_column: High_Risk_Flag
  dropped_columns:
    - Borrower_ID
`

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing schema fixture: %v", err)
	}
	return path
}

func TestLoadSchema(t *testing.T) {
	s, err := Load(writeSchema(t, sampleSchema), "loan_recovery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.TargetColumn != "High_Risk_Flag" {
		t.Fatalf("unexpected target column %q", s.TargetColumn)
	}
	if len(s.RequiredColumns) != 3 {
		t.Fatalf("expected 3 required columns, got %d", len(s.RequiredColumns))
	}

	num := s.NumericColumns()
	if len(num) != 2 || num[0] != "Age" || num[1] != "Monthly_Income" {
		t.Fatalf("unexpected numeric columns %v", num)
	}
	cat := s.CategoricalColumns()
	if len(cat) != 1 || cat[0] != "Gender" {
		t.Fatalf("unexpected categorical columns %v", cat)
	}
}

func TestLoadSchemaMissingDomain(t *testing.T) {
	if _, err := Load(writeSchema(t, sampleSchema), "mortgages"); err == nil {
		t.Fatal("expected error for missing domain section")
	}
}

func TestLoadSchemaUndeclaredDtype(t *testing.T) {
	broken := `
loan_recovery:
  column_dtypes:
    Age: int
  required_columns:
    - Age
    - Gender
  target_column: High_Risk_Flag
`
	if _, err := Load(writeSchema(t, broken), "loan_recovery"); err == nil {
		t.Fatal("expected error for required column without dtype")
	}
}
