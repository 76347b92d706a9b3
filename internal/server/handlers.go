package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songrec/internal/models"
	"github.com/desertthunder/songrec/internal/shared"
	"github.com/desertthunder/songrec/internal/tasks"
	"github.com/go-playground/validator/v10"
)

const (
	maxBodyBytes = 64 << 10

	invalidBodyMessage  = "Request body must be a JSON object with an \"input\" string"
	inputTooLongMessage = "Input must be at most 500 characters"
)

var validate = validator.New()

// RecommendationRequest is the body of POST /recommendations.
type RecommendationRequest struct {
	Input string `json:"input" validate:"max=500"`
}

// RecommendationsHandler runs the recommendation pipeline for POST /recommendations.
type RecommendationsHandler struct {
	pipeline tasks.Pipeline
	metrics  *Metrics
	logger   *log.Logger
}

// NewRecommendationsHandler creates a handler backed by pipeline.
func NewRecommendationsHandler(pipeline tasks.Pipeline, metrics *Metrics, logger *log.Logger) *RecommendationsHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &RecommendationsHandler{pipeline: pipeline, metrics: metrics, logger: logger}
}

func (h *RecommendationsHandler) Routes() []Route {
	return []Route{{Method: http.MethodPost, Path: "/recommendations"}}
}

// ServeHTTP decodes the request, runs the pipeline with the request context and writes its outcome.
//
// Bodies that do not decode get the same 400 shape as a rejected song.
func (h *RecommendationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := shared.WithLogger(h.logger, "request_id", RequestIDFrom(r.Context()))

	var req RecommendationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.Warn("rejecting request body", "error", err)
		writeJSON(w, http.StatusBadRequest, models.NewFailureResponse(invalidBodyMessage, nil, nil))
		return
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		msg := invalidBodyMessage
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
			msg = inputTooLongMessage
		}
		writeJSON(w, http.StatusBadRequest, models.NewFailureResponse(msg, nil, nil))
		return
	}

	outcome := h.pipeline.Handle(r.Context(), req.Input, nil)
	if h.metrics != nil {
		h.metrics.RecordRequest(outcome.Status, outcome.Err, time.Since(start))
	}
	if outcome.Err != nil {
		logger.Debug("request failed", "status", outcome.Status, "error", outcome.Err)
	}

	writeJSON(w, outcome.Status, outcome.Body())
}

// HealthHandler reports liveness on GET /health.
type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

func (h *HealthHandler) Routes() []Route {
	return []Route{{Method: http.MethodGet, Path: "/health"}}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   h.now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}
