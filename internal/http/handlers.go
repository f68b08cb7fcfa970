package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/aqi-dashboard/internal/dashboard"
	"github.com/kjstillabower/aqi-dashboard/internal/lifecycle"
	"github.com/kjstillabower/aqi-dashboard/internal/models"
	"github.com/kjstillabower/aqi-dashboard/internal/observability"
	"github.com/kjstillabower/aqi-dashboard/internal/service"
	"github.com/kjstillabower/aqi-dashboard/internal/traffic"
	"github.com/kjstillabower/aqi-dashboard/internal/validation"
)

// maxBodyBytes bounds POST /api/predict bodies.
const maxBodyBytes = 64 << 10

// HealthConfig holds lifecycle thresholds for the health handler.
type HealthConfig struct {
	OverloadWindow       time.Duration
	OverloadThresholdPct int
	RateLimitRPS         int
	RateLimitBurst       int // 0 when rate limiter disabled
	DegradedWindow       time.Duration
	DegradedErrorPct     int
}

// Predictor runs one prediction. Satisfied by *service.PredictionService.
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) (models.PredictionResult, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	predictor    Predictor
	vocab        validation.Vocabulary
	modelType    string
	renderer     *dashboard.Renderer
	title        string
	healthConfig *HealthConfig
	logger       *zap.Logger
	now          func() time.Time

	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler. vocab lists the labels known to the loaded encoders.
func NewHandler(
	predictor Predictor,
	vocab validation.Vocabulary,
	modelType string,
	renderer *dashboard.Renderer,
	title string,
	healthConfig *HealthConfig,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		predictor:    predictor,
		vocab:        vocab,
		modelType:    modelType,
		renderer:     renderer,
		title:        title,
		healthConfig: healthConfig,
		logger:       logger,
		now:          time.Now,
	}
}

// GetDashboard handles GET /. Query parameters drive the sidebar; every render
// recomputes the prediction from scratch.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	req, err := validation.FromForm(r.URL.Query(), h.vocab, now)
	if err != nil {
		defaults, _ := validation.FromForm(nil, h.vocab, now)
		h.renderPage(w, r, http.StatusBadRequest, dashboard.NewView(h.title, h.vocab, defaults).WithError(err.Error()))
		return
	}

	view := dashboard.NewView(h.title, h.vocab, req)
	result, err := h.predictor.Predict(r.Context(), req)
	if err != nil {
		status, _ := statusForError(err)
		recordOutcome(status)
		logError(r, "dashboard prediction failed", err)
		h.renderPage(w, r, status, view.WithError(err.Error()))
		return
	}
	traffic.RecordSuccess()

	view, err = view.WithResult(result)
	if err != nil {
		logError(r, "chart render failed", err)
		h.renderPage(w, r, http.StatusInternalServerError, view.WithError("Unable to render pollutant chart"))
		return
	}
	h.renderPage(w, r, http.StatusOK, view)
}

// renderPage buffers the template so a failed render never leaves a half-written 200.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, view dashboard.View) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, view); err != nil {
		logError(r, "template render failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// predictRequest is the JSON body of POST /api/predict. Date and time are wall-clock
// values; they are interpreted in UTC.
type predictRequest struct {
	City       string            `json:"city"`
	Location   string            `json:"location"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Weather    models.Weather    `json:"weather"`
	Pollutants models.Pollutants `json:"pollutants"`
}

// PostPredict handles POST /api/predict. Unlike the dashboard, out-of-range
// readings are rejected rather than clamped.
func (h *Handler) PostPredict(w http.ResponseWriter, r *http.Request) {
	var body predictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_INPUT", "request body must be a JSON prediction request")
		return
	}

	city, location := strings.TrimSpace(body.City), strings.TrimSpace(body.Location)
	if city == "" || location == "" {
		writeError(w, r, http.StatusBadRequest, "INVALID_INPUT", "city and location are required")
		return
	}
	ts, err := validation.ParseTimestamp(body.Date, body.Time, time.UTC)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	req := models.PredictionRequest{
		City:       city,
		Location:   location,
		Timestamp:  ts,
		Weather:    body.Weather,
		Pollutants: body.Pollutants,
	}
	if err := validation.ValidateRequest(req); err != nil {
		observability.RecordPredictionError(string(service.ErrorCategoryValidation))
		writeError(w, r, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	result, err := h.predictor.Predict(r.Context(), req)
	if err != nil {
		status, code := statusForError(err)
		recordOutcome(status)
		logError(r, "api prediction failed", err)
		writeError(w, r, status, code, err.Error())
		return
	}
	traffic.RecordSuccess()
	writeJSON(w, http.StatusOK, result)
}

// optionsResponse is the body of GET /api/options.
type optionsResponse struct {
	Cities     []string                    `json:"cities"`
	Locations  []string                    `json:"locations"`
	Weather    []validation.NumericControl `json:"weather"`
	Pollutants []validation.NumericControl `json:"pollutants"`
	ModelType  string                      `json:"modelType"`
}

// GetOptions handles GET /api/options: the selectable labels and slider bounds.
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{
		Cities:     h.vocab.Cities,
		Locations:  h.vocab.Locations,
		Weather:    validation.WeatherControls,
		Pollutants: validation.PollutantControls,
		ModelType:  h.modelType,
	})
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	// Artifacts load before the handler exists; a failed load never gets this far.
	checks := map[string]string{"artifacts": "healthy", "predictions": "healthy"}
	if result.reason == "error_rate_breach" {
		checks["predictions"] = "unhealthy"
	}
	now := h.now()
	writeJSON(w, result.statusCode, map[string]interface{}{
		"status":        result.status,
		"service":       observability.ServiceName,
		"version":       "dev",
		"modelType":     h.modelType,
		"checks":        checks,
		"uptimeSeconds": int64(lifecycle.Uptime(now).Seconds()),
		"timestamp":     now.UTC().Format(time.RFC3339),
	})
}

// computeHealthStatus evaluates conditions in priority order:
// shutting-down > overloaded > degraded > healthy.
func (h *Handler) computeHealthStatus() healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if h.healthConfig == nil {
		return healthResult{"healthy", http.StatusOK, ""}
	}
	if h.healthConfig.RateLimitRPS > 0 && h.healthConfig.OverloadWindow > 0 {
		threshold := float64(h.healthConfig.RateLimitRPS) * h.healthConfig.OverloadWindow.Seconds() * float64(h.healthConfig.OverloadThresholdPct) / 100
		if float64(traffic.RequestCount(h.healthConfig.OverloadWindow)) > threshold {
			return healthResult{"overloaded", http.StatusServiceUnavailable, "overload_threshold"}
		}
	}
	if h.healthConfig.DegradedWindow > 0 && h.healthConfig.DegradedErrorPct > 0 {
		errs, total := traffic.ErrorRate(h.healthConfig.DegradedWindow)
		if total > 0 {
			pct := float64(errs) * 100 / float64(total)
			if pct >= float64(h.healthConfig.DegradedErrorPct) {
				return healthResult{"degraded", http.StatusServiceUnavailable, "error_rate_breach"}
			}
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

// statusForError maps a pipeline error to an HTTP status and error code.
func statusForError(err error) (int, string) {
	switch service.CategorizeError(err) {
	case service.ErrorCategoryValidation:
		return http.StatusBadRequest, "INVALID_INPUT"
	case service.ErrorCategoryUnknownCategory:
		return http.StatusUnprocessableEntity, "UNKNOWN_CATEGORY"
	case service.ErrorCategorySchemaMismatch:
		return http.StatusInternalServerError, "FEATURE_SCHEMA_MISMATCH"
	case service.ErrorCategoryTimeout:
		if errors.Is(err, context.Canceled) {
			return http.StatusServiceUnavailable, "REQUEST_CANCELED"
		}
		return http.StatusGatewayTimeout, "TIMEOUT"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// recordOutcome counts server-side failures toward the degraded error rate.
// Client errors (unknown labels, bad input) are served responses, not failures.
func recordOutcome(status int) {
	if status >= http.StatusInternalServerError {
		traffic.RecordError()
		return
	}
	traffic.RecordSuccess()
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code, message,
// and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID := ""
	if v := r.Context().Value("correlation_id"); v != nil {
		corrID = v.(string)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}

func logError(r *http.Request, msg string, err error) {
	if logger, ok := r.Context().Value("logger").(*zap.Logger); ok && logger != nil {
		logger.Debug(msg, zap.Error(err))
	}
}
