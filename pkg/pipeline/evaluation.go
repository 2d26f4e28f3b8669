package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/recovera-ai/platform/pkg/artifact"
	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/dataset"
	"github.com/recovera-ai/platform/pkg/ml/metrics"
	"github.com/recovera-ai/platform/pkg/tracking"
)

type evaluationReport struct {
	ModelPath            string                         `yaml:"model_path"`
	Accuracy             float64                        `yaml:"accuracy"`
	ROCAUC               float64                        `yaml:"roc_auc"`
	ClassificationReport map[string]metrics.ClassReport `yaml:"classification_report"`
}

// Evaluation reloads the trained model and held-out matrix, re-derives the
// metrics, and persists a structured report. The transformation artifact is
// part of the contract so the evaluation record pins the transformer that
// produced the features, even though scoring never touches it.
type Evaluation struct {
	config  EvaluationConfig
	tracker *tracking.Tracker
}

func NewEvaluation(config EvaluationConfig, tracker *tracking.Tracker) *Evaluation {
	return &Evaluation{config: config, tracker: tracker}
}

func (s *Evaluation) Run(ctx context.Context, runID string, training artifact.TrainingArtifact, transformation artifact.TransformationArtifact) (artifact.EvaluationArtifact, error) {
	logger.Log.WithField("model", training.ModelPath).Info("Starting model evaluation")

	model, err := LoadModel(training.ModelPath)
	if err != nil {
		return artifact.EvaluationArtifact{}, err
	}
	if _, err := os.Stat(transformation.TransformerPath); err != nil {
		return artifact.EvaluationArtifact{}, fmt.Errorf("transformer missing: %w", err)
	}

	testMatrix, err := dataset.ReadMatrix(training.TestMatrixPath)
	if err != nil {
		return artifact.EvaluationArtifact{}, fmt.Errorf("loading test matrix: %w", err)
	}
	testX, testY := testMatrix.SplitLabel()

	predicted, scores, err := scoreAll(model, testX)
	if err != nil {
		return artifact.EvaluationArtifact{}, fmt.Errorf("scoring test split: %w", err)
	}
	accuracy, err := metrics.Accuracy(testY, predicted)
	if err != nil {
		return artifact.EvaluationArtifact{}, fmt.Errorf("computing accuracy: %w", err)
	}
	rocAUC, err := metrics.ROCAUC(testY, scores)
	if err != nil {
		return artifact.EvaluationArtifact{}, fmt.Errorf("computing roc-auc: %w", err)
	}
	classReport, err := metrics.Report(testY, predicted)
	if err != nil {
		return artifact.EvaluationArtifact{}, fmt.Errorf("computing classification report: %w", err)
	}

	report := evaluationReport{
		ModelPath:            training.ModelPath,
		Accuracy:             accuracy,
		ROCAUC:               rocAUC,
		ClassificationReport: classReport,
	}
	if err := writeReport(s.config.ReportPath, report); err != nil {
		return artifact.EvaluationArtifact{}, err
	}

	// best-effort experiment tracking; a sink failure never fails the stage
	s.tracker.LogMetric(ctx, runID, "eval_accuracy", accuracy)
	s.tracker.LogMetric(ctx, runID, "eval_roc_auc", rocAUC)
	s.tracker.LogArtifact(ctx, runID, "evaluation_report", s.config.ReportPath)

	logger.Log.WithFields(map[string]interface{}{
		"accuracy": accuracy,
		"roc_auc":  rocAUC,
		"report":   s.config.ReportPath,
	}).Info("Model evaluation complete")

	return artifact.EvaluationArtifact{
		ReportPath: s.config.ReportPath,
		Accuracy:   accuracy,
		ROCAUC:     rocAUC,
	}, nil
}

func writeReport(path string, report evaluationReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	payload, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
