package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/recovera-ai/platform/pkg/artifact"
	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/dataset"
	"github.com/recovera-ai/platform/pkg/schema"
)

type fakeSource struct {
	frame *dataset.Frame
	err   error
}

func (f fakeSource) ExportCollection(ctx context.Context, collection string) (*dataset.Frame, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.frame, nil
}

func borrowerSchema() *schema.Schema {
	dtypes := map[string]string{
		"Age":                     "int",
		"Gender":                  "str",
		"Employment_Type":         "str",
		"Monthly_Income":          "float",
		"Num_Dependents":          "int",
		"Loan_Amount":             "float",
		"Loan_Tenure":             "int",
		"Interest_Rate":           "float",
		"Collateral_Value":        "float",
		"Outstanding_Loan_Amount": "float",
		"Monthly_EMI":             "float",
		"Payment_History":         "str",
		"Num_Missed_Payments":     "int",
		"Days_Past_Due":           "int",
		"Collection_Attempts":     "int",
		"Collection_Method":       "str",
		"Legal_Action_Taken":      "str",
	}
	required := []string{
		"Age", "Gender", "Employment_Type", "Monthly_Income", "Num_Dependents",
		"Loan_Amount", "Loan_Tenure", "Interest_Rate", "Collateral_Value",
		"Outstanding_Loan_Amount", "Monthly_EMI", "Payment_History",
		"Num_Missed_Payments", "Days_Past_Due", "Collection_Attempts",
		"Collection_Method", "Legal_Action_Taken",
	}
	return &schema.Schema{
		ColumnDtypes:    dtypes,
		RequiredColumns: required,
		TargetColumn:    "High_Risk_Flag",
		DroppedColumns:  []string{"Borrower_ID"},
	}
}

// syntheticBorrowers builds four well-separated borrower profiles, fifteen
// rows each, so segmentation and training both see plenty of both classes.
func syntheticBorrowers(t *testing.T) *dataset.Frame {
	t.Helper()
	columns := []string{
		"Borrower_ID", "Age", "Gender", "Employment_Type", "Monthly_Income",
		"Num_Dependents", "Loan_Amount", "Loan_Tenure", "Interest_Rate",
		"Collateral_Value", "Outstanding_Loan_Amount", "Monthly_EMI",
		"Payment_History", "Num_Missed_Payments", "Days_Past_Due",
		"Collection_Attempts", "Collection_Method", "Legal_Action_Taken",
		"High_Risk_Flag",
	}
	frame := dataset.NewFrame(columns)

	type profile struct {
		gender, employment, history, method, legal string
		income, loan, collateral, outstanding, emi float64
		tenure, missed, pastDue, attempts          int
		rate                                       float64
	}
	profiles := []profile{
		{"Male", "Salaried", "On-Time", "Calls", "No", 150000, 200000, 500000, 20000, 6000, 36, 0, 0, 0, 8.5},
		{"Female", "Salaried", "On-Time", "Calls", "No", 60000, 250000, 200000, 80000, 7000, 48, 1, 5, 1, 10.0},
		{"Male", "Self-Employed", "Delayed", "Legal Notice", "No", 40000, 400000, 100000, 160000, 9000, 60, 3, 30, 3, 12.5},
		{"Female", "Self-Employed", "Missed", "Legal Notice", "Yes", 25000, 600000, 50000, 300000, 11000, 72, 6, 90, 6, 15.0},
	}

	id := 0
	for g, p := range profiles {
		for r := 0; r < 15; r++ {
			id++
			age := 29 + g*6 + r%5
			row := []string{
				fmt.Sprintf("B%04d", id),
				fmt.Sprintf("%d", age),
				p.gender,
				p.employment,
				fmt.Sprintf("%.0f", p.income+float64(r)*100),
				fmt.Sprintf("%d", r%4),
				fmt.Sprintf("%.0f", p.loan+float64(r)*500),
				fmt.Sprintf("%d", p.tenure),
				fmt.Sprintf("%.1f", p.rate),
				fmt.Sprintf("%.0f", p.collateral),
				fmt.Sprintf("%.0f", p.outstanding+float64(r)*200),
				fmt.Sprintf("%.0f", p.emi),
				p.history,
				fmt.Sprintf("%d", p.missed),
				fmt.Sprintf("%d", p.pastDue),
				fmt.Sprintf("%d", p.attempts),
				p.method,
				p.legal,
				"0", // raw flag placeholder; transformation re-derives it
			}
			if err := frame.AppendRow(row); err != nil {
				t.Fatalf("fixture: %v", err)
			}
		}
	}
	return frame
}

func countFiles(t *testing.T, dir, name string) int {
	t.Helper()
	var count int
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.Name() == name {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", dir, err)
	}
	return count
}

func TestOrchestratorEndToEnd(t *testing.T) {
	logger.InitQuiet()
	base := t.TempDir()
	run := artifact.NewRunAt(base, time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC))
	source := fakeSource{frame: syntheticBorrowers(t)}

	orch := NewOrchestrator(run, source, borrowerSchema(), "borrowers", nil)
	gotRun, evaluation, err := orch.Run()
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if orch.State() != StateDone {
		t.Fatalf("unexpected final state %q", orch.State())
	}
	if gotRun.ID != run.ID {
		t.Fatalf("unexpected run %q", gotRun.ID)
	}

	if evaluation.Accuracy < 0 || evaluation.Accuracy > 1 {
		t.Fatalf("accuracy out of range: %v", evaluation.Accuracy)
	}
	if evaluation.ROCAUC < 0 || evaluation.ROCAUC > 1 {
		t.Fatalf("roc-auc out of range: %v", evaluation.ROCAUC)
	}
	if _, err := os.Stat(evaluation.ReportPath); err != nil {
		t.Fatalf("report not written: %v", err)
	}

	if n := countFiles(t, run.RootDir, artifact.ModelFile); n != 1 {
		t.Fatalf("expected exactly one model file, found %d", n)
	}
	if n := countFiles(t, run.RootDir, artifact.TransformerFile); n != 1 {
		t.Fatalf("expected exactly one transformer file, found %d", n)
	}

	latest, err := artifact.LatestRun(base)
	if err != nil {
		t.Fatalf("completed run not resolvable: %v", err)
	}
	if latest.ID != run.ID {
		t.Fatalf("latest run %q, want %q", latest.ID, run.ID)
	}
}

func TestOrchestratorHardStopsOnInvalidData(t *testing.T) {
	logger.InitQuiet()
	base := t.TempDir()
	run := artifact.NewRunAt(base, time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC))

	frame := dataset.NewFrame([]string{"Age", "Gender"})
	if err := frame.AppendRow([]string{"30", "Male"}); err != nil {
		t.Fatalf("fixture: %v", err)
	}

	orch := NewOrchestrator(run, fakeSource{frame: frame}, borrowerSchema(), "borrowers", nil)
	_, _, err := orch.Run()

	var stop ValidationStopError
	if !errors.As(err, &stop) {
		t.Fatalf("expected ValidationStopError, got %v", err)
	}
	if orch.State() != StateFailed {
		t.Fatalf("unexpected state %q", orch.State())
	}

	// no stage after validation may have produced output
	if _, err := os.Stat(filepath.Join(run.RootDir, artifact.TransformationDir)); !os.IsNotExist(err) {
		t.Fatal("transformation ran despite failed validation")
	}
	// and the run must never be resolvable as complete
	if _, err := artifact.LatestRun(base); !artifact.IsNotFound(err) {
		t.Fatalf("failed run resolved as latest: %v", err)
	}
}

func TestOrchestratorWrapsStageFailures(t *testing.T) {
	logger.InitQuiet()
	base := t.TempDir()
	run := artifact.NewRunAt(base, time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC))

	orch := NewOrchestrator(run, fakeSource{err: errors.New("connection refused")}, borrowerSchema(), "borrowers", nil)
	_, _, err := orch.Run()

	stage, ok := FailedStage(err)
	if !ok || stage != "ingestion" {
		t.Fatalf("expected ingestion StageError, got %v", err)
	}
	if orch.State() != StateFailed {
		t.Fatalf("unexpected state %q", orch.State())
	}
}
