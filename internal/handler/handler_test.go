package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkarpova/enrichment-service/internal/analytics"
	"github.com/mkarpova/enrichment-service/internal/domain"
	"github.com/mkarpova/enrichment-service/internal/enrich"
	"github.com/mkarpova/enrichment-service/internal/handler"
	"github.com/mkarpova/enrichment-service/internal/router"
	"github.com/mkarpova/enrichment-service/internal/service"
)

const testMaxBatch = 10

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := enrich.NewDefaultRegistry(nil)
	orchestrator := enrich.NewOrchestrator(registry, logger)
	coordinator := enrich.NewCoordinator(orchestrator, 2, logger)
	svc := service.New(orchestrator, coordinator, analytics.NewAggregator(), nil, nil, logger)

	defaults := domain.EnrichmentConfig{
		EnabledTypes: []string{domain.TypeSEOOptimization, domain.TypeQualityScoring},
		Languages:    []string{"en"},
	}
	return router.Setup(handler.NewHandler(svc, defaults, testMaxBatch))
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp
}

func TestEnrichEndpoint(t *testing.T) {
	t.Parallel()

	body := `{
		"product": {"id": "p1", "title": "Portable Speaker"},
		"config": {"enabled_types": ["seo_optimization"], "languages": ["en"], "seo_keywords": ["wireless"]}
	}`
	rec := doJSON(t, newTestRouter(), http.MethodPost, "/enrich", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result domain.EnrichmentResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.ProductID != "p1" {
		t.Errorf("product_id = %q, want p1", result.ProductID)
	}
	if result.EnrichedProduct.Title != "Portable Speaker wireless" {
		t.Errorf("enriched title = %q", result.EnrichedProduct.Title)
	}
	if result.OriginalProduct.Title != "Portable Speaker" {
		t.Errorf("original title = %q", result.OriginalProduct.Title)
	}
}

func TestEnrichEndpointUsesServerDefaults(t *testing.T) {
	t.Parallel()

	rec := doJSON(t, newTestRouter(), http.MethodPost, "/enrich", `{"product": {"id": "p1", "title": "Lamp"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestEnrichEndpointMissingProductID(t *testing.T) {
	t.Parallel()

	rec := doJSON(t, newTestRouter(), http.MethodPost, "/enrich", `{"product": {"title": "No ID"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "invalid_product" {
		t.Errorf("error = %q, want invalid_product", resp.Error)
	}
}

func TestEnrichEndpointUnknownType(t *testing.T) {
	t.Parallel()

	body := `{
		"product": {"id": "p1"},
		"config": {"enabled_types": ["telepathy"], "languages": ["en"]}
	}`
	rec := doJSON(t, newTestRouter(), http.MethodPost, "/enrich", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "validation_error" {
		t.Errorf("error = %q, want validation_error", resp.Error)
	}
}

func TestEnrichEndpointMalformedBody(t *testing.T) {
	t.Parallel()

	rec := doJSON(t, newTestRouter(), http.MethodPost, "/enrich", `{"product":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "invalid_body" {
		t.Errorf("error = %q, want invalid_body", resp.Error)
	}
}

func TestBatchEndpoint(t *testing.T) {
	t.Parallel()

	body := `{"products": [{"id": "p1", "title": "Lamp"}, {"id": "p2", "title": "Chair"}]}`
	rec := doJSON(t, newTestRouter(), http.MethodPost, "/enrich/batch", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp domain.BatchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(resp.Items))
	}
	if resp.Items[0].ProductID != "p1" || resp.Items[1].ProductID != "p2" {
		t.Errorf("items out of order: %+v", resp.Items)
	}
	if resp.Summary.SuccessCount != 2 || resp.Summary.FailedCount != 0 {
		t.Errorf("summary = %+v", resp.Summary)
	}
}

func TestBatchEndpointEmptyProducts(t *testing.T) {
	t.Parallel()

	rec := doJSON(t, newTestRouter(), http.MethodPost, "/enrich/batch", `{"products": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "invalid_parameter" {
		t.Errorf("error = %q, want invalid_parameter", resp.Error)
	}
}

func TestBatchEndpointTooManyProducts(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	b.WriteString(`{"products": [`)
	for i := 0; i <= testMaxBatch; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"id": "p"}`)
	}
	b.WriteString(`]}`)

	rec := doJSON(t, newTestRouter(), http.MethodPost, "/enrich/batch", b.String())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	t.Parallel()

	body := `{"products": [{"id": "p1", "title": "Lamp"}, {"id": "p2"}]}`
	rec := doJSON(t, newTestRouter(), http.MethodPost, "/analytics/content-performance", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var report domain.AnalyticsReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalProducts != 2 {
		t.Errorf("total = %d, want 2", report.TotalProducts)
	}
	if _, ok := report.Dimensions[domain.MetricCompleteness]; !ok {
		t.Errorf("dimensions = %v, want completeness", report.Dimensions)
	}
}

func TestUploadCSVEndpoint(t *testing.T) {
	t.Parallel()

	feed := "product_id,name\nP1,Widget\n,MissingID\nP3,Gadget\n"
	req := httptest.NewRequest(http.MethodPost, "/upload/csv", strings.NewReader(feed))
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp handler.UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Parsed != 2 {
		t.Errorf("parsed = %d, want 2", resp.Parsed)
	}
	if len(resp.Skipped) != 1 {
		t.Errorf("skipped = %v, want one entry", resp.Skipped)
	}
	if len(resp.Products) != 2 {
		t.Errorf("products = %+v", resp.Products)
	}
	if resp.Batch != nil {
		t.Error("batch must be absent without ?enrich=true")
	}
}

func TestUploadCSVEndpointWithEnrichment(t *testing.T) {
	t.Parallel()

	feed := "product_id,name\nP1,Widget\n"
	req := httptest.NewRequest(http.MethodPost, "/upload/csv?enrich=true", strings.NewReader(feed))
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp handler.UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Batch == nil || len(resp.Batch.Items) != 1 {
		t.Fatalf("batch = %+v, want one item", resp.Batch)
	}
	if resp.Batch.Items[0].Status != domain.StatusSucceeded {
		t.Errorf("item = %+v, want success", resp.Batch.Items[0])
	}
}

func TestUploadXMLEndpoint(t *testing.T) {
	t.Parallel()

	feed := `<products><product id="P1"><title>Widget</title></product></products>`
	req := httptest.NewRequest(http.MethodPost, "/upload/xml", strings.NewReader(feed))
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp handler.UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Parsed != 1 || len(resp.Products) != 1 || resp.Products[0].ID != "P1" {
		t.Errorf("response = %+v", resp)
	}
}

func TestUploadXMLEndpointInvalidFeed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/upload/xml", strings.NewReader("not xml"))
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStatsEndpointWithoutHistory(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/stats/enrichment", nil)
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var stats domain.EnrichmentStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalEnrichments != 0 {
		t.Errorf("total = %d, want 0", stats.TotalEnrichments)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
