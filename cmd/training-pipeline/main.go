package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/recovera-ai/platform/pkg/artifact"
	"github.com/recovera-ai/platform/pkg/common/config"
	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/documentstore"
	"github.com/recovera-ai/platform/pkg/observability/metrics"
	"github.com/recovera-ai/platform/pkg/pipeline"
	"github.com/recovera-ai/platform/pkg/schema"
	"github.com/recovera-ai/platform/pkg/tracking"
)

func main() {
	logger.Init()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Log.Warn("Shutdown signal received, cancelling pipeline run")
		cancel()
	}()

	s, err := schema.Load(cfg.SchemaFilePath, cfg.SchemaDomain)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load schema")
	}

	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	store, err := documentstore.Connect(connectCtx, cfg.MongoURL, cfg.MongoDatabase)
	connectCancel()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to document store")
	}
	defer store.Close(context.Background())

	tracker := tracking.NewTracker(cfg.KafkaBrokers, cfg.MetricsTopic, cfg.ExperimentName)
	defer tracker.Close()

	run := artifact.NewRun(cfg.ArtifactBaseDir)
	orchestrator := pipeline.NewOrchestrator(run, store, s, cfg.Collection, tracker)

	logger.Log.WithFields(map[string]interface{}{
		"run_id":     run.ID,
		"collection": cfg.Collection,
	}).Info("Training pipeline started")

	_, evaluation, err := orchestrator.RunContext(ctx)
	metrics.ObservePipelineRun(err == nil)
	if err != nil {
		fields := map[string]interface{}{"run_id": run.ID}
		if stage, ok := pipeline.FailedStage(err); ok {
			fields["stage"] = stage
		}
		logger.Log.WithFields(fields).WithError(err).Error("Training pipeline failed")
		os.Exit(1)
	}

	logger.Log.WithFields(map[string]interface{}{
		"run_id":   run.ID,
		"accuracy": evaluation.Accuracy,
		"roc_auc":  evaluation.ROCAUC,
		"report":   evaluation.ReportPath,
	}).Info("Training pipeline completed")
}
