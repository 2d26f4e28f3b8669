package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Stage directory names and canonical filenames under a run root.
const (
	IngestionDir       = "data_ingestion"
	FeatureStoreSubdir = "feature_store"
	FeatureStoreFile   = "loan.csv"

	ValidationDir = "data_validation"

	TransformationDir   = "data_transformation"
	TransformedDataFile = "transformed_data.csv"
	TransformerFile     = "transformer.json"
	TrainMatrixFile     = "transformed_train.bin"

	TrainerDir     = "model_trainer"
	ModelFile      = "risk_classifier.json"
	TestMatrixFile = "test.bin"

	EvaluationDir = "model_evaluation"
	ReportFile    = "report.yaml"

	// completionMarker is written atomically as a run's final action.
	// Serving-time resolution only considers runs bearing it.
	completionMarker = ".completed"
)

// NotFoundError reports a missing run or stage path.
type NotFoundError struct {
	Path   string
	Reason string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("artifact not found: %s (%s)", e.Path, e.Reason)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// Resolve is a deterministic pure path join for a stage file under a run
// root. It performs no filesystem access.
func Resolve(runRoot, stage string, elems ...string) string {
	parts := append([]string{runRoot, stage}, elems...)
	return filepath.Join(parts...)
}

// LatestRun picks the completed run with the lexicographically greatest ID
// under baseDir. Runs without the completion marker (in progress, crashed)
// are skipped so a serving session never reads a half-written run.
func LatestRun(baseDir string) (Run, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return Run{}, NotFoundError{Path: baseDir, Reason: "artifact base directory unreadable"}
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		marker := filepath.Join(baseDir, entry.Name(), completionMarker)
		if _, err := os.Stat(marker); err != nil {
			continue
		}
		ids = append(ids, entry.Name())
	}
	if len(ids) == 0 {
		return Run{}, NotFoundError{Path: baseDir, Reason: "no completed runs"}
	}
	sort.Strings(ids)
	return runFromDir(baseDir, ids[len(ids)-1]), nil
}

// ResolveLatest joins a stage path under the latest completed run and
// verifies the stage directory exists.
func ResolveLatest(baseDir, stage string, elems ...string) (string, error) {
	run, err := LatestRun(baseDir)
	if err != nil {
		return "", err
	}
	stageDir := filepath.Join(run.RootDir, stage)
	if _, err := os.Stat(stageDir); err != nil {
		return "", NotFoundError{Path: stageDir, Reason: "stage directory missing"}
	}
	return Resolve(run.RootDir, stage, elems...), nil
}

// MarkComplete records the run as finished. The marker is written to a
// temp file and renamed so a concurrent LatestRun never observes a
// partially written marker.
func MarkComplete(run Run) error {
	tmp := filepath.Join(run.RootDir, completionMarker+".tmp")
	final := filepath.Join(run.RootDir, completionMarker)
	if err := os.WriteFile(tmp, []byte(run.ID+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing completion marker for run %s: %w", run.ID, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("publishing completion marker for run %s: %w", run.ID, err)
	}
	return nil
}
