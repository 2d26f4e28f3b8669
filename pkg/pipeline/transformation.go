package pipeline

import (
	"fmt"
	"strconv"

	"github.com/recovera-ai/platform/pkg/artifact"
	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/dataset"
	"github.com/recovera-ai/platform/pkg/schema"
	"github.com/recovera-ai/platform/pkg/transform"
)

// Transformation derives borrower segments and the high-risk label, fits
// and persists the column transformer, and writes both the transformed
// table and the numeric training matrix. A mid-stage failure leaves
// whatever was already written; each run owns a fresh directory so stale
// partial output never leaks across runs.
type Transformation struct {
	schema *schema.Schema
	config TransformationConfig
}

func NewTransformation(s *schema.Schema, config TransformationConfig) *Transformation {
	return &Transformation{schema: s, config: config}
}

func (s *Transformation) Run(ingestion artifact.IngestionArtifact) (artifact.TransformationArtifact, error) {
	logger.Log.WithField("path", ingestion.FeatureStorePath).Info("Starting data transformation")

	raw, err := dataset.ReadCSV(ingestion.FeatureStorePath)
	if err != nil {
		return artifact.TransformationArtifact{}, fmt.Errorf("reading feature store: %w", err)
	}
	frame := raw.DropColumns(s.schema.DroppedColumns)

	segmentNames, riskFlags, err := transform.AssignSegments(frame)
	if err != nil {
		return artifact.TransformationArtifact{}, fmt.Errorf("segmenting borrowers: %w", err)
	}

	transformer, err := transform.Fit(frame, s.schema)
	if err != nil {
		return artifact.TransformationArtifact{}, fmt.Errorf("fitting transformer: %w", err)
	}
	if err := transform.Save(s.config.TransformerPath, transformer); err != nil {
		return artifact.TransformationArtifact{}, fmt.Errorf("persisting transformer: %w", err)
	}

	features, err := transformer.Transform(frame)
	if err != nil {
		return artifact.TransformationArtifact{}, fmt.Errorf("transforming features: %w", err)
	}

	if err := s.writeTransformedTable(transformer, features, riskFlags, segmentNames); err != nil {
		return artifact.TransformationArtifact{}, err
	}
	if err := s.writeTrainMatrix(features, riskFlags); err != nil {
		return artifact.TransformationArtifact{}, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"rows":     len(features),
		"features": transformer.Width(),
	}).Info("Data transformation complete")

	return artifact.TransformationArtifact{
		TransformedDataPath: s.config.TransformedDataPath,
		TransformerPath:     s.config.TransformerPath,
		TrainMatrixPath:     s.config.TrainMatrixPath,
	}, nil
}

// writeTransformedTable persists transform output plus the two derived
// label columns, the high-risk flag and the segment name, as the tabular
// artifact.
func (s *Transformation) writeTransformedTable(transformer *transform.ColumnTransformer, features [][]float64, riskFlags, segmentNames []string) error {
	names, err := transformer.OutputNames()
	if err != nil {
		return fmt.Errorf("naming transformed columns: %w", err)
	}

	table := dataset.NewFrame(names)
	for _, row := range features {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := table.AppendRow(cells); err != nil {
			return fmt.Errorf("assembling transformed table: %w", err)
		}
	}
	if err := table.AppendColumn(s.schema.TargetColumn, riskFlags); err != nil {
		return fmt.Errorf("assembling transformed table: %w", err)
	}
	if err := table.AppendColumn(transform.SegmentColumn, segmentNames); err != nil {
		return fmt.Errorf("assembling transformed table: %w", err)
	}

	if err := dataset.WriteCSV(s.config.TransformedDataPath, table); err != nil {
		return fmt.Errorf("writing transformed table: %w", err)
	}
	return nil
}

// writeTrainMatrix persists transform output plus the high-risk flag only,
// flag in the final column, as the training matrix. The segment name never
// reaches training.
func (s *Transformation) writeTrainMatrix(features [][]float64, riskFlags []string) error {
	labels := make([]float64, len(riskFlags))
	for i, flag := range riskFlags {
		v, err := strconv.ParseFloat(flag, 64)
		if err != nil {
			return fmt.Errorf("parsing risk flag %q: %w", flag, err)
		}
		labels[i] = v
	}

	matrix, err := dataset.FromRows(features, labels)
	if err != nil {
		return fmt.Errorf("assembling training matrix: %w", err)
	}
	if err := dataset.WriteMatrix(s.config.TrainMatrixPath, matrix); err != nil {
		return fmt.Errorf("writing training matrix: %w", err)
	}
	return nil
}
