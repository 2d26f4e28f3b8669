package pipeline

import (
	"fmt"
	"strings"

	"github.com/recovera-ai/platform/pkg/artifact"
	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/dataset"
	"github.com/recovera-ai/platform/pkg/schema"
)

const validationSuccessMessage = "data validation successful"

// Validation checks that every required column plus the target column is
// present in the ingested table. A failed check is a normal artifact
// outcome, not an error; the orchestrator turns it into a hard stop.
type Validation struct {
	schema *schema.Schema
}

func NewValidation(s *schema.Schema) *Validation {
	return &Validation{schema: s}
}

func (s *Validation) Run(ingestion artifact.IngestionArtifact) (artifact.ValidationArtifact, error) {
	logger.Log.WithField("path", ingestion.FeatureStorePath).Info("Starting data validation")

	frame, err := dataset.ReadCSV(ingestion.FeatureStorePath)
	if err != nil {
		return artifact.ValidationArtifact{}, fmt.Errorf("reading feature store: %w", err)
	}

	missing := missingColumns(frame, s.schema)
	result := artifact.ValidationArtifact{Status: len(missing) == 0}
	if result.Status {
		result.Message = validationSuccessMessage
	} else {
		result.Message = "missing required columns: " + strings.Join(missing, ", ")
	}

	logger.Log.WithFields(map[string]interface{}{
		"status":  result.Status,
		"message": result.Message,
	}).Info("Data validation complete")
	return result, nil
}

// missingColumns returns (required ∪ {target}) \ columns(frame), each name
// once, in schema-declared order with the target last.
func missingColumns(frame *dataset.Frame, s *schema.Schema) []string {
	var missing []string
	seen := make(map[string]struct{})
	expected := append(append([]string(nil), s.RequiredColumns...), s.TargetColumn)
	for _, col := range expected {
		if _, dup := seen[col]; dup {
			continue
		}
		seen[col] = struct{}{}
		if !frame.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
