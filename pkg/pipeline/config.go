package pipeline

import (
	"github.com/recovera-ai/platform/pkg/artifact"
)

// Per-stage configurations are fully determined by the run plus the fixed
// stage-relative paths; nothing is mutated after construction. Stage inputs
// travel as explicit artifact parameters, never through config patching.

type IngestionConfig struct {
	Collection       string
	FeatureStorePath string
}

func NewIngestionConfig(run artifact.Run, collection string) IngestionConfig {
	return IngestionConfig{
		Collection: collection,
		FeatureStorePath: artifact.Resolve(
			run.RootDir, artifact.IngestionDir, artifact.FeatureStoreSubdir, artifact.FeatureStoreFile),
	}
}

type TransformationConfig struct {
	TransformedDataPath string
	TransformerPath     string
	TrainMatrixPath     string
}

func NewTransformationConfig(run artifact.Run) TransformationConfig {
	return TransformationConfig{
		TransformedDataPath: artifact.Resolve(run.RootDir, artifact.TransformationDir, artifact.TransformedDataFile),
		TransformerPath:     artifact.Resolve(run.RootDir, artifact.TransformationDir, artifact.TransformerFile),
		TrainMatrixPath:     artifact.Resolve(run.RootDir, artifact.TransformationDir, artifact.TrainMatrixFile),
	}
}

type TrainingConfig struct {
	ModelPath      string
	TestMatrixPath string
}

func NewTrainingConfig(run artifact.Run) TrainingConfig {
	return TrainingConfig{
		ModelPath:      artifact.Resolve(run.RootDir, artifact.TrainerDir, artifact.ModelFile),
		TestMatrixPath: artifact.Resolve(run.RootDir, artifact.TrainerDir, artifact.TestMatrixFile),
	}
}

type EvaluationConfig struct {
	ReportPath string
}

func NewEvaluationConfig(run artifact.Run) EvaluationConfig {
	return EvaluationConfig{
		ReportPath: artifact.Resolve(run.RootDir, artifact.EvaluationDir, artifact.ReportFile),
	}
}
