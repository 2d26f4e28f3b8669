package serving

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/recovera-ai/platform/pkg/common/models"
)

// PredictionLog is the persistence model for serving analytics.
type PredictionLog struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;column:id"`
	RecordKey string            `gorm:"column:record_key"`
	RunID     string            `gorm:"column:run_id"`
	Request   datatypes.JSONMap `gorm:"column:request"`
	RiskScore float64           `gorm:"column:risk_score"`
	HighRisk  int               `gorm:"column:high_risk"`
	Strategy  string            `gorm:"column:strategy"`
	LatencyMs float64           `gorm:"column:latency_ms"`
	CreatedAt time.Time         `gorm:"column:created_at"`
}

// TableName overrides gorm naming.
func (PredictionLog) TableName() string {
	return "prediction_logs"
}

// Repository records served predictions for audit and analytics.
type Repository struct {
	db    *gorm.DB
	runID string
}

func NewRepository(db *gorm.DB, runID string) *Repository {
	return &Repository{db: db, runID: runID}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&PredictionLog{})
}

func (r *Repository) RecordPrediction(ctx context.Context, record map[string]string, resp models.PredictionResponse) error {
	request := make(datatypes.JSONMap, len(record))
	for name, value := range record {
		request[name] = value
	}
	log := PredictionLog{
		ID:        uuid.New(),
		RecordKey: RecordKey(record),
		RunID:     r.runID,
		Request:   request,
		RiskScore: resp.RiskScore,
		HighRisk:  resp.PredictedHighRisk,
		Strategy:  resp.RecoveryStrategy,
		LatencyMs: float64(resp.Latency.Microseconds()) / 1000.0,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&log).Error
}

// Recent returns the most recent prediction logs up to limit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]PredictionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []PredictionLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
