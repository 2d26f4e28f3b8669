package pipeline

import (
	"context"
	"fmt"

	"github.com/recovera-ai/platform/pkg/artifact"
	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/dataset"
)

// RecordSource exports a document-store collection as a table; satisfied by
// documentstore.Client.
type RecordSource interface {
	ExportCollection(ctx context.Context, collection string) (*dataset.Frame, error)
}

// Ingestion exports the borrower collection to the run's feature-store
// file. An empty result table is not an ingestion failure; validation
// catches schema violations downstream.
type Ingestion struct {
	source RecordSource
	config IngestionConfig
}

func NewIngestion(source RecordSource, config IngestionConfig) *Ingestion {
	return &Ingestion{source: source, config: config}
}

func (s *Ingestion) Run(ctx context.Context) (artifact.IngestionArtifact, error) {
	logger.Log.WithField("collection", s.config.Collection).Info("Starting data ingestion")

	frame, err := s.source.ExportCollection(ctx, s.config.Collection)
	if err != nil {
		return artifact.IngestionArtifact{}, fmt.Errorf("exporting collection %s: %w", s.config.Collection, err)
	}

	if err := dataset.WriteCSV(s.config.FeatureStorePath, frame); err != nil {
		return artifact.IngestionArtifact{}, fmt.Errorf("writing feature store: %w", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"records": frame.NumRows(),
		"path":    s.config.FeatureStorePath,
	}).Info("Data ingestion complete")

	return artifact.IngestionArtifact{FeatureStorePath: s.config.FeatureStorePath}, nil
}
