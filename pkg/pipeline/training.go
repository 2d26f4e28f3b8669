package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/recovera-ai/platform/pkg/artifact"
	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/dataset"
	"github.com/recovera-ai/platform/pkg/ml/forest"
	"github.com/recovera-ai/platform/pkg/ml/metrics"
)

// Fixed training hyperparameters. The seed makes the split and the fitted
// ensemble reproducible for a given training matrix.
const (
	trainerTrees    = 100
	trainerMaxDepth = 5
	trainerMinLeaf  = 10
	trainerSeed     = 42
	testFraction    = 0.2
)

// Training fits the risk classifier on the transformation stage's numeric
// matrix and persists the model plus the held-out test matrix.
type Training struct {
	config TrainingConfig
}

func NewTraining(config TrainingConfig) *Training {
	return &Training{config: config}
}

func (s *Training) Run(transformation artifact.TransformationArtifact) (artifact.TrainingArtifact, error) {
	logger.Log.WithField("path", transformation.TrainMatrixPath).Info("Starting model training")

	matrix, err := dataset.ReadMatrix(transformation.TrainMatrixPath)
	if err != nil {
		return artifact.TrainingArtifact{}, fmt.Errorf("loading training matrix: %w", err)
	}
	features, labels := matrix.SplitLabel()

	trainIdx, testIdx, err := metrics.TrainTestSplit(matrix.Rows, testFraction, trainerSeed)
	if err != nil {
		return artifact.TrainingArtifact{}, fmt.Errorf("splitting data: %w", err)
	}

	trainX, trainY := gather(features, labels, trainIdx)
	testX, testY := gather(features, labels, testIdx)

	model, err := forest.Train(trainX, trainY, forest.Options{
		Trees:    trainerTrees,
		MaxDepth: trainerMaxDepth,
		MinLeaf:  trainerMinLeaf,
		Seed:     trainerSeed,
	})
	if err != nil {
		return artifact.TrainingArtifact{}, fmt.Errorf("fitting classifier: %w", err)
	}

	predicted, scores, err := scoreAll(model, testX)
	if err != nil {
		return artifact.TrainingArtifact{}, fmt.Errorf("scoring test split: %w", err)
	}
	accuracy, err := metrics.Accuracy(testY, predicted)
	if err != nil {
		return artifact.TrainingArtifact{}, fmt.Errorf("computing accuracy: %w", err)
	}
	rocAUC, err := metrics.ROCAUC(testY, scores)
	if err != nil {
		return artifact.TrainingArtifact{}, fmt.Errorf("computing roc-auc: %w", err)
	}

	if err := SaveModel(s.config.ModelPath, model); err != nil {
		return artifact.TrainingArtifact{}, err
	}

	testMatrix, err := dataset.FromRows(testX, testY)
	if err != nil {
		return artifact.TrainingArtifact{}, fmt.Errorf("assembling test matrix: %w", err)
	}
	if err := dataset.WriteMatrix(s.config.TestMatrixPath, testMatrix); err != nil {
		return artifact.TrainingArtifact{}, fmt.Errorf("writing test matrix: %w", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"accuracy": accuracy,
		"roc_auc":  rocAUC,
		"model":    s.config.ModelPath,
	}).Info("Model training complete")

	return artifact.TrainingArtifact{
		ModelPath:      s.config.ModelPath,
		TestMatrixPath: s.config.TestMatrixPath,
		Accuracy:       accuracy,
		ROCAUC:         rocAUC,
	}, nil
}

func gather(features [][]float64, labels []float64, indices []int) ([][]float64, []float64) {
	x := make([][]float64, len(indices))
	y := make([]float64, len(indices))
	for i, idx := range indices {
		x[i] = features[idx]
		y[i] = labels[idx]
	}
	return x, y
}

func scoreAll(model *forest.Forest, samples [][]float64) (predicted, scores []float64, err error) {
	predicted = make([]float64, len(samples))
	scores = make([]float64, len(samples))
	for i, sample := range samples {
		scores[i], err = model.PredictProba(sample)
		if err != nil {
			return nil, nil, err
		}
		if scores[i] >= 0.5 {
			predicted[i] = 1
		}
	}
	return predicted, scores, nil
}

// SaveModel persists a trained model as JSON, readable by LoadModel.
func SaveModel(path string, model *forest.Forest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}
	payload, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("marshalling model: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}
	return nil
}

// LoadModel reads a model persisted by the training stage.
func LoadModel(path string) (*forest.Forest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model %s: %w", path, err)
	}
	var model forest.Forest
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, fmt.Errorf("parsing model %s: %w", path, err)
	}
	if len(model.Roots) == 0 {
		return nil, fmt.Errorf("parsing model %s: empty ensemble", path)
	}
	return &model, nil
}
