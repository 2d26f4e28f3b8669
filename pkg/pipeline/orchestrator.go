package pipeline

import (
	"context"
	"fmt"

	"github.com/recovera-ai/platform/pkg/artifact"
	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/schema"
	"github.com/recovera-ai/platform/pkg/tracking"
)

// State names for the run's progression. Transitions are strictly forward;
// the first stage error moves the run to StateFailed with no retry.
const (
	StateInit         = "init"
	StateIngesting    = "ingesting"
	StateValidating   = "validating"
	StateTransforming = "transforming"
	StateTraining     = "training"
	StateEvaluating   = "evaluating"
	StateDone         = "done"
	StateFailed       = "failed"
)

// ValidationStopError is the deliberate early stop when the validation
// artifact reports a schema-invalid table. It is distinct from StageError:
// nothing failed, the data was rejected.
type ValidationStopError struct {
	Message string
}

func (e ValidationStopError) Error() string {
	return fmt.Sprintf("pipeline stopped: %s", e.Message)
}

// Orchestrator sequences one run of the training pipeline, threading stage
// artifacts explicitly from producer to consumer.
type Orchestrator struct {
	run     artifact.Run
	source  RecordSource
	schema  *schema.Schema
	tracker *tracking.Tracker

	collection string
	state      string
}

func NewOrchestrator(run artifact.Run, source RecordSource, s *schema.Schema, collection string, tracker *tracking.Tracker) *Orchestrator {
	return &Orchestrator{
		run:        run,
		source:     source,
		schema:     s,
		tracker:    tracker,
		collection: collection,
		state:      StateInit,
	}
}

func (o *Orchestrator) State() string {
	return o.state
}

func (o *Orchestrator) Run() (artifact.Run, artifact.EvaluationArtifact, error) {
	return o.RunContext(context.Background())
}

// RunContext executes ingestion through evaluation for the orchestrator's
// run, marks the run complete, and returns the evaluation artifact.
func (o *Orchestrator) RunContext(ctx context.Context) (artifact.Run, artifact.EvaluationArtifact, error) {
	logger.Log.WithField("run_id", o.run.ID).Info("Starting training pipeline run")

	o.state = StateIngesting
	ingestion, err := NewIngestion(o.source, NewIngestionConfig(o.run, o.collection)).Run(ctx)
	if err != nil {
		return o.fail("ingestion", err)
	}

	o.state = StateValidating
	validation, err := NewValidation(o.schema).Run(ingestion)
	if err != nil {
		return o.fail("validation", err)
	}
	if !validation.Status {
		// the single explicit quality gate: invalid data never trains
		o.state = StateFailed
		logger.Log.WithField("message", validation.Message).Error("Validation rejected the ingested data")
		return o.run, artifact.EvaluationArtifact{}, ValidationStopError{Message: validation.Message}
	}

	o.state = StateTransforming
	transformation, err := NewTransformation(o.schema, NewTransformationConfig(o.run)).Run(ingestion)
	if err != nil {
		return o.fail("transformation", err)
	}

	o.state = StateTraining
	training, err := NewTraining(NewTrainingConfig(o.run)).Run(transformation)
	if err != nil {
		return o.fail("training", err)
	}

	o.state = StateEvaluating
	evaluation, err := NewEvaluation(NewEvaluationConfig(o.run), o.tracker).Run(ctx, o.run.ID, training, transformation)
	if err != nil {
		return o.fail("evaluation", err)
	}

	if err := artifact.MarkComplete(o.run); err != nil {
		return o.fail("completion", err)
	}

	o.state = StateDone
	logger.Log.WithFields(map[string]interface{}{
		"run_id":   o.run.ID,
		"accuracy": evaluation.Accuracy,
		"roc_auc":  evaluation.ROCAUC,
		"report":   evaluation.ReportPath,
	}).Info("Training pipeline run complete")
	return o.run, evaluation, nil
}

func (o *Orchestrator) fail(stage string, err error) (artifact.Run, artifact.EvaluationArtifact, error) {
	o.state = StateFailed
	wrapped := stageFailure(stage, err)
	logger.Log.WithError(err).WithFields(map[string]interface{}{
		"run_id": o.run.ID,
		"stage":  stage,
	}).Error("Training pipeline run failed")
	return o.run, artifact.EvaluationArtifact{}, wrapped
}
