package serving

import (
	"errors"
	"fmt"
	"time"

	"github.com/recovera-ai/platform/pkg/artifact"
	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/dataset"
	"github.com/recovera-ai/platform/pkg/ml/forest"
	"github.com/recovera-ai/platform/pkg/observability/metrics"
	"github.com/recovera-ai/platform/pkg/pipeline"
	"github.com/recovera-ai/platform/pkg/transform"
)

// SchemaMismatchError reports a prediction record lacking a field the
// fitted transformer expects.
type SchemaMismatchError struct {
	Field string
}

func (e SchemaMismatchError) Error() string {
	return fmt.Sprintf("record missing expected field %s", e.Field)
}

func IsSchemaMismatch(err error) bool {
	var sm SchemaMismatchError
	return errors.As(err, &sm)
}

// Prediction is the scoring outcome for one borrower record.
type Prediction struct {
	RiskScore float64
	HighRisk  int
}

// Service scores single borrower records against the latest completed
// run's transformer and model. Both are resolved once at construction and
// held in memory; the service only ever reads run artifacts, never writes
// them.
type Service struct {
	runID       string
	transformer *transform.ColumnTransformer
	model       *forest.Forest
}

// NewService resolves and loads the latest completed run. Returns
// artifact.NotFoundError when no completed run exists under baseDir.
func NewService(baseDir string) (*Service, error) {
	start := time.Now()
	run, err := artifact.LatestRun(baseDir)
	if err != nil {
		return nil, err
	}

	transformerPath := artifact.Resolve(run.RootDir, artifact.TransformationDir, artifact.TransformerFile)
	modelPath := artifact.Resolve(run.RootDir, artifact.TrainerDir, artifact.ModelFile)

	transformer, err := transform.Load(transformerPath)
	if err != nil {
		return nil, fmt.Errorf("loading transformer for run %s: %w", run.ID, err)
	}
	model, err := pipeline.LoadModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model for run %s: %w", run.ID, err)
	}

	metrics.ObserveModelLoad(time.Since(start))
	logger.Log.WithFields(map[string]interface{}{
		"run_id":      run.ID,
		"model":       modelPath,
		"transformer": transformerPath,
	}).Info("Inference service ready")

	return &Service{runID: run.ID, transformer: transformer, model: model}, nil
}

// RunID identifies the run whose artifacts back this service.
func (s *Service) RunID() string {
	return s.runID
}

// Predict wraps the record as a one-row table, applies the loaded
// transformer, and thresholds the model's positive-class probability at
// 0.5. Two calls with an identical record yield an identical score.
func (s *Service) Predict(record map[string]string) (Prediction, error) {
	columns := make([]string, 0, len(record))
	for name := range record {
		columns = append(columns, name)
	}
	frame := dataset.NewFrame(columns)
	row := make([]string, len(columns))
	for i, name := range columns {
		row[i] = record[name]
	}
	if err := frame.AppendRow(row); err != nil {
		return Prediction{}, fmt.Errorf("wrapping record: %w", err)
	}

	features, err := s.transformer.Transform(frame)
	if err != nil {
		var missing transform.MissingColumnError
		if errors.As(err, &missing) {
			return Prediction{}, SchemaMismatchError{Field: missing.Column}
		}
		return Prediction{}, fmt.Errorf("transforming record: %w", err)
	}

	score, err := s.model.PredictProba(features[0])
	if err != nil {
		return Prediction{}, fmt.Errorf("scoring record: %w", err)
	}

	prediction := Prediction{RiskScore: score}
	if score > 0.5 {
		prediction.HighRisk = 1
	}
	return prediction, nil
}
