package pipeline

import (
	"errors"
	"fmt"
)

// StageError wraps any failure raised while a stage runs, tagging it with
// the stage that raised it. There is no retry anywhere in the pipeline; the
// orchestrator fails the run on the first StageError.
type StageError struct {
	Stage string
	Err   error
}

func (e StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e StageError) Unwrap() error {
	return e.Err
}

func stageFailure(stage string, err error) error {
	return StageError{Stage: stage, Err: err}
}

// FailedStage returns the stage name when err carries a StageError.
func FailedStage(err error) (string, bool) {
	var se StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
