package artifact

// Stage artifacts are immutable records produced by exactly one stage and
// read-only to all downstream consumers. They reference on-disk paths; the
// data itself never crosses stages in memory. A referenced path that has
// gone missing surfaces as a failure in the consuming stage.

type IngestionArtifact struct {
	FeatureStorePath string
}

type ValidationArtifact struct {
	Status  bool
	Message string
}

type TransformationArtifact struct {
	TransformedDataPath string
	TransformerPath     string
	TrainMatrixPath     string
}

type TrainingArtifact struct {
	ModelPath      string
	TestMatrixPath string
	Accuracy       float64
	ROCAUC         float64
}

type EvaluationArtifact struct {
	ReportPath string
	Accuracy   float64
	ROCAUC     float64
}
