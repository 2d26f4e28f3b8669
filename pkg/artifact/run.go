package artifact

import (
	"path/filepath"
	"time"
)

// runIDLayout is fixed-width and zero-padded so run IDs order correctly as
// strings within a calendar year: MM_DD_YYYY_HH_MM_SS.
const runIDLayout = "01_02_2006_15_04_05"

// Run is one execution of the training pipeline: an immutable identifier
// plus the directory scoped to it. Runs accumulate under the base directory;
// retention is out of scope.
type Run struct {
	ID      string
	RootDir string
}

// NewRun derives a run from the current UTC time.
func NewRun(baseDir string) Run {
	return NewRunAt(baseDir, time.Now().UTC())
}

// NewRunAt derives a run from an explicit timestamp.
func NewRunAt(baseDir string, ts time.Time) Run {
	id := ts.Format(runIDLayout)
	return Run{ID: id, RootDir: filepath.Join(baseDir, id)}
}

func runFromDir(baseDir, id string) Run {
	return Run{ID: id, RootDir: filepath.Join(baseDir, id)}
}
