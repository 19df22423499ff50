package handler

import (
	"io"
	"net/http"

	"github.com/mkarpova/enrichment-service/internal/normalize"
)

const maxUploadBytes = 10 << 20

// POST /upload/xml
func (h *Handler) UploadXML(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, normalize.ParseXML)
}

// POST /upload/csv
func (h *Handler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, normalize.ParseCSV)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request, parse func(io.Reader) ([]map[string]any, error)) {
	records, err := parse(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_feed", err.Error())
		return
	}

	products, normalizeErrs := normalize.FromRecords(records)
	resp := UploadResponse{Parsed: len(products)}
	for _, nErr := range normalizeErrs {
		resp.Skipped = append(resp.Skipped, nErr.Error())
	}

	if r.URL.Query().Get("enrich") == "true" && len(products) > 0 {
		if len(products) > h.maxBatch {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "feed exceeds the batch enrichment limit")
			return
		}
		batch, err := h.service.EnrichBatch(r.Context(), products, h.defaults)
		if err != nil {
			writePipelineError(w, err)
			return
		}
		resp.Batch = batch
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Products = products
	writeJSON(w, http.StatusOK, resp)
}
