package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mkarpova/enrichment-service/internal/domain"
	"github.com/mkarpova/enrichment-service/internal/service"
)

type Handler struct {
	service  *service.Service
	defaults domain.EnrichmentConfig
	maxBatch int
}

func NewHandler(svc *service.Service, defaults domain.EnrichmentConfig, maxBatch int) *Handler {
	if maxBatch <= 0 {
		maxBatch = 500
	}
	return &Handler{service: svc, defaults: defaults, maxBatch: maxBatch}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// writePipelineError maps domain error kinds onto HTTP statuses.
func writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsScoringError(err):
		writeError(w, http.StatusBadRequest, "invalid_product", err.Error())
	case domain.IsStrategyError(err):
		writeError(w, http.StatusUnprocessableEntity, "strategy_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// configOrDefaults falls back to the server-wide enrichment defaults when a
// request does not carry its own config.
func (h *Handler) configOrDefaults(cfg *domain.EnrichmentConfig) domain.EnrichmentConfig {
	if cfg == nil {
		return h.defaults
	}
	out := *cfg
	if len(out.Languages) == 0 {
		out.Languages = h.defaults.Languages
	}
	return out
}
