package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/drift"
	"github.com/driftwatch/driftwatch/internal/engine"
	"github.com/driftwatch/driftwatch/internal/feature"
	"github.com/driftwatch/driftwatch/internal/metrics"
	"github.com/driftwatch/driftwatch/internal/window"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng    *engine.Engine
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, loader *config.Loader) http.Handler {
	h := &Handler{eng: eng, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /v1/checks", h.runCheck)
	h.mux.HandleFunc("POST /v1/checks/async", h.runCheckAsync)
	h.mux.HandleFunc("GET /v1/profiles", h.listProfiles)
	h.mux.HandleFunc("POST /v1/profiles/reload", h.reloadProfiles)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// checkPayload is the request body for both check endpoints. Either Profile
// or the inline partition fields must be supplied.
type checkPayload struct {
	Profile             string        `json:"profile,omitempty"`
	Baseline            window.Window `json:"baseline"`
	Comparison          window.Window `json:"comparison"`
	NumericFeatures     []string      `json:"numeric_features,omitempty"`
	CategoricalFeatures []string      `json:"categorical_features,omitempty"`
	Alpha               float64       `json:"alpha,omitempty"`
	NumericTest         string        `json:"numeric_test,omitempty"`
	JSThreshold         float64       `json:"js_threshold,omitempty"`
}

func (p *checkPayload) toRequest() (*engine.CheckRequest, error) {
	if len(p.Baseline.Records) == 0 || len(p.Comparison.Records) == 0 {
		return nil, fmt.Errorf("both baseline and comparison windows must contain records")
	}
	if p.Profile == "" && len(p.NumericFeatures) == 0 && len(p.CategoricalFeatures) == 0 {
		return nil, fmt.Errorf("either profile or a feature partition is required")
	}
	return &engine.CheckRequest{
		ID:         uuid.New().String(),
		Baseline:   &p.Baseline,
		Comparison: &p.Comparison,
		ProfileID:  p.Profile,
		Partition: feature.Partition{
			Numeric:     p.NumericFeatures,
			Categorical: p.CategoricalFeatures,
		},
		Alpha:       p.Alpha,
		NumericTest: drift.TestKind(p.NumericTest),
		JSThreshold: p.JSThreshold,
	}, nil
}

// POST /v1/checks — synchronous drift check.
func (h *Handler) runCheck(w http.ResponseWriter, r *http.Request) {
	var payload checkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	req, err := payload.toRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.eng.CheckSync(r.Context(), req)
	if err != nil {
		writeCheckError(w, err)
		return
	}
	metrics.CheckDuration.Observe(float64(res.DurationMs))
	writeJSON(w, http.StatusOK, res)
}

// POST /v1/checks/async — enqueue a check; drift events surface via metrics
// and logs.
func (h *Handler) runCheckAsync(w http.ResponseWriter, r *http.Request) {
	var payload checkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	req, err := payload.toRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.eng.CheckAsync(req) {
		writeError(w, http.StatusTooManyRequests, "check queue full")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"check_id": req.ID,
		"queued":   true,
	})
}

// GET /v1/profiles — list configured monitor profiles.
func (h *Handler) listProfiles(w http.ResponseWriter, r *http.Request) {
	cfg := h.loader.Config()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":  cfg.Version,
		"profiles": cfg.Profiles,
	})
}

// POST /v1/profiles/reload — hot-reload profiles from disk.
func (h *Handler) reloadProfiles(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := config.Validate(cfg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.eng.SwapProfiles(cfg)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":       true,
		"profiles_count": len(cfg.Profiles),
	})
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if check queue >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
