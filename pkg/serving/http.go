package serving

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/common/models"
	"github.com/recovera-ai/platform/pkg/observability/metrics"
)

// requestFields declares the 17 required prediction fields and how each
// must parse. Order matters only for error reporting.
var requestFields = []struct {
	name string
	kind string // int, float, str
}{
	{"Age", "int"},
	{"Gender", "str"},
	{"Employment_Type", "str"},
	{"Monthly_Income", "float"},
	{"Num_Dependents", "int"},
	{"Loan_Amount", "float"},
	{"Loan_Tenure", "int"},
	{"Interest_Rate", "float"},
	{"Collateral_Value", "float"},
	{"Outstanding_Loan_Amount", "float"},
	{"Monthly_EMI", "float"},
	{"Payment_History", "str"},
	{"Num_Missed_Payments", "int"},
	{"Days_Past_Due", "int"},
	{"Collection_Attempts", "int"},
	{"Collection_Method", "str"},
	{"Legal_Action_Taken", "str"},
}

type HTTPHandler struct {
	service *Service
	cache   *ScoreCache
	repo    *Repository
	maxBody int64
}

func NewHTTPHandler(service *Service, cache *ScoreCache, repo *Repository, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, cache: cache, repo: repo, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/predict", h.handlePredict).Methods(http.MethodPost)
	router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/metrics", h.handleMetrics).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "run_id": h.service.RunID()})
}

func (h *HTTPHandler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics.WritePrometheus(w)
}

// handlePredict scores one borrower record. Any parse or scoring fault is
// rendered as a single error string; the service never crashes on a bad
// request.
func (h *HTTPHandler) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	record, err := parseRecord(r)
	if err != nil {
		metrics.ObservePredictionFailure()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if h.cache != nil {
		if cached, ok := h.cache.Get(r.Context(), record); ok {
			metrics.ObserveCacheHit()
			writeResponse(w, cached)
			return
		}
	}

	prediction, err := h.service.Predict(record)
	if err != nil {
		metrics.ObservePredictionFailure()
		if IsSchemaMismatch(err) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		logger.Log.WithError(err).Error("prediction failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	strategy, err := Strategy(prediction.RiskScore)
	if err != nil {
		metrics.ObservePredictionFailure()
		logger.Log.WithError(err).Error("strategy mapping failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := models.PredictionResponse{
		RiskScore:         prediction.RiskScore,
		PredictedHighRisk: prediction.HighRisk,
		RecoveryStrategy:  strategy,
		Latency:           time.Since(start),
	}

	if h.cache != nil {
		h.cache.Set(r.Context(), record, resp)
	}
	if h.repo != nil {
		if err := h.repo.RecordPrediction(r.Context(), record, resp); err != nil {
			logger.Log.WithError(err).Warn("failed to log prediction")
		}
	}

	metrics.ObservePrediction()
	writeResponse(w, resp)
}

// parseRecord accepts a JSON object or an HTML form and requires every
// declared field to be present, non-blank, and well typed.
func parseRecord(r *http.Request) (map[string]string, error) {
	values, err := payloadValues(r)
	if err != nil {
		return nil, err
	}

	record := make(map[string]string, len(requestFields))
	for _, field := range requestFields {
		raw, ok := values[field.name]
		if !ok || strings.TrimSpace(raw) == "" {
			return nil, fmt.Errorf("missing field: %s", field.name)
		}
		raw = strings.TrimSpace(raw)
		switch field.kind {
		case "int":
			if _, err := strconv.Atoi(raw); err != nil {
				return nil, fmt.Errorf("invalid value for field %s", field.name)
			}
		case "float":
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return nil, fmt.Errorf("invalid value for field %s", field.name)
			}
		}
		record[field.name] = raw
	}
	return record, nil
}

func payloadValues(r *http.Request) (map[string]string, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("invalid request body")
		}
		values := make(map[string]string, len(payload))
		for key, value := range payload {
			switch v := value.(type) {
			case string:
				values[key] = v
			case float64:
				values[key] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				values[key] = strconv.FormatBool(v)
			case nil:
				// treated as missing
			default:
				return nil, fmt.Errorf("invalid value for field %s", key)
			}
		}
		return values, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid request body")
	}
	values := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		values[key] = r.PostForm.Get(key)
	}
	return values, nil
}

func writeResponse(w http.ResponseWriter, resp models.PredictionResponse) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
