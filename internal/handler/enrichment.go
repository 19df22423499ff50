package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// POST /enrich
func (h *Handler) EnrichOne(w http.ResponseWriter, r *http.Request) {
	var req EnrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}
	if req.Product.ID == "" {
		writeError(w, http.StatusBadRequest, "invalid_product", "product.id is required")
		return
	}

	result, err := h.service.EnrichOne(r.Context(), req.Product, h.configOrDefaults(req.Config))
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// POST /enrich/batch
func (h *Handler) EnrichBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchEnrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}
	if len(req.Products) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "products must not be empty")
		return
	}
	if len(req.Products) > h.maxBatch {
		writeError(w, http.StatusBadRequest, "invalid_parameter",
			fmt.Sprintf("batch size is limited to %d products per request", h.maxBatch))
		return
	}

	resp, err := h.service.EnrichBatch(r.Context(), req.Products, h.configOrDefaults(req.Config))
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /analytics/content-performance
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}
	if len(req.Products) > h.maxBatch {
		writeError(w, http.StatusBadRequest, "invalid_parameter",
			fmt.Sprintf("analysis is limited to %d products per request", h.maxBatch))
		return
	}

	report, err := h.service.Analyze(r.Context(), req.Products)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GET /stats/enrichment
func (h *Handler) EnrichmentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
