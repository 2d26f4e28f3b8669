package tracking

import (
	"context"

	"github.com/recovera-ai/platform/pkg/common/kafka"
	"github.com/recovera-ai/platform/pkg/common/logger"
)

// Publisher is the event-bus surface the tracker needs; satisfied by
// kafka.Producer.
type Publisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

// Tracker reports run metrics and artifact references to the experiment
// sink. It is strictly best-effort: a publish failure logs a warning and is
// never surfaced to the caller, so a sink outage cannot fail a pipeline
// stage. A nil Tracker is a no-op.
type Tracker struct {
	publisher  Publisher
	experiment string
}

func NewTracker(brokers []string, topic, experiment string) *Tracker {
	return &Tracker{
		publisher:  kafka.NewProducer(brokers, topic),
		experiment: experiment,
	}
}

// NewTrackerWith wires a custom publisher; used by tests.
func NewTrackerWith(publisher Publisher, experiment string) *Tracker {
	return &Tracker{publisher: publisher, experiment: experiment}
}

// LogMetric records a named scalar for the run.
func (t *Tracker) LogMetric(ctx context.Context, runID, name string, value float64) {
	if t == nil {
		return
	}
	err := t.publisher.PublishEvent(ctx, "metric", t.experiment, map[string]interface{}{
		"run_id": runID,
		"name":   name,
		"value":  value,
	})
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"run_id": runID,
			"metric": name,
		}).Warn("metric publish failed, continuing")
	}
}

// LogArtifact records an artifact file reference for the run.
func (t *Tracker) LogArtifact(ctx context.Context, runID, name, path string) {
	if t == nil {
		return
	}
	err := t.publisher.PublishEvent(ctx, "artifact", t.experiment, map[string]interface{}{
		"run_id": runID,
		"name":   name,
		"path":   path,
	})
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"run_id":   runID,
			"artifact": name,
		}).Warn("artifact publish failed, continuing")
	}
}

func (t *Tracker) Close() error {
	if t == nil {
		return nil
	}
	if closer, ok := t.publisher.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
