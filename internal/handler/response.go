package handler

import "github.com/mkarpova/enrichment-service/internal/domain"

type EnrichRequest struct {
	Product domain.Product           `json:"product"`
	Config  *domain.EnrichmentConfig `json:"config,omitempty"`
}

type BatchEnrichRequest struct {
	Products []domain.Product         `json:"products"`
	Config   *domain.EnrichmentConfig `json:"config,omitempty"`
}

type AnalyzeRequest struct {
	Products []domain.Product `json:"products"`
}

type UploadResponse struct {
	Parsed   int              `json:"parsed"`
	Skipped  []string         `json:"skipped,omitempty"`
	Products []domain.Product `json:"products,omitempty"`

	// set when the upload was enriched in place
	Batch *domain.BatchResponse `json:"batch,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
