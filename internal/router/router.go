package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkarpova/enrichment-service/internal/handler"
)

func Setup(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Routes
	r.Post("/enrich", h.EnrichOne)
	r.Post("/enrich/batch", h.EnrichBatch)
	r.Post("/analytics/content-performance", h.Analyze)
	r.Post("/upload/xml", h.UploadXML)
	r.Post("/upload/csv", h.UploadCSV)
	r.Get("/stats/enrichment", h.EnrichmentStats)
	r.Get("/health", healthCheck)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
