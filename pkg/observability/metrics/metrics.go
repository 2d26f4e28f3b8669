package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

var (
	predictionsServed  atomic.Int64
	predictionFailures atomic.Int64
	cacheHits          atomic.Int64
	pipelineRuns       atomic.Int64
	pipelineFailures   atomic.Int64
	modelLoadMillis    atomic.Int64
)

func ObservePrediction() {
	predictionsServed.Add(1)
}

func ObservePredictionFailure() {
	predictionFailures.Add(1)
}

func ObserveCacheHit() {
	cacheHits.Add(1)
}

func ObserveModelLoad(d time.Duration) {
	modelLoadMillis.Store(d.Milliseconds())
}

func ObservePipelineRun(succeeded bool) {
	pipelineRuns.Add(1)
	if !succeeded {
		pipelineFailures.Add(1)
	}
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	fmt.Fprintf(w, "# HELP recovera_serving_predictions_total Predictions served successfully.\n")
	fmt.Fprintf(w, "# TYPE recovera_serving_predictions_total counter\n")
	fmt.Fprintf(w, "recovera_serving_predictions_total %d\n", predictionsServed.Load())

	fmt.Fprintf(w, "# HELP recovera_serving_prediction_failures_total Prediction requests rejected or failed.\n")
	fmt.Fprintf(w, "# TYPE recovera_serving_prediction_failures_total counter\n")
	fmt.Fprintf(w, "recovera_serving_prediction_failures_total %d\n", predictionFailures.Load())

	fmt.Fprintf(w, "# HELP recovera_serving_cache_hits_total Predictions answered from the score cache.\n")
	fmt.Fprintf(w, "# TYPE recovera_serving_cache_hits_total counter\n")
	fmt.Fprintf(w, "recovera_serving_cache_hits_total %d\n", cacheHits.Load())

	fmt.Fprintf(w, "# HELP recovera_serving_model_load_milliseconds Time spent loading run artifacts at startup.\n")
	fmt.Fprintf(w, "# TYPE recovera_serving_model_load_milliseconds gauge\n")
	fmt.Fprintf(w, "recovera_serving_model_load_milliseconds %d\n", modelLoadMillis.Load())

	fmt.Fprintf(w, "# HELP recovera_pipeline_runs_total Training pipeline runs started.\n")
	fmt.Fprintf(w, "# TYPE recovera_pipeline_runs_total counter\n")
	fmt.Fprintf(w, "recovera_pipeline_runs_total %d\n", pipelineRuns.Load())

	fmt.Fprintf(w, "# HELP recovera_pipeline_run_failures_total Training pipeline runs that failed.\n")
	fmt.Fprintf(w, "# TYPE recovera_pipeline_run_failures_total counter\n")
	fmt.Fprintf(w, "recovera_pipeline_run_failures_total %d\n", pipelineFailures.Load())
}
