// Package service is the facade collaborators call: enrich one, enrich a
// batch, analyze. It owns the optional cache and history wiring so the
// enrichment core stays free of I/O concerns.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkarpova/enrichment-service/internal/analytics"
	"github.com/mkarpova/enrichment-service/internal/cache"
	"github.com/mkarpova/enrichment-service/internal/domain"
	"github.com/mkarpova/enrichment-service/internal/enrich"
	"github.com/mkarpova/enrichment-service/internal/repository"
)

type Service struct {
	orchestrator *enrich.Orchestrator
	coordinator  *enrich.Coordinator
	aggregator   *analytics.Aggregator
	cache        *cache.ResultCache     // optional
	repo         *repository.Repository // optional
	logger       *slog.Logger
}

func New(orchestrator *enrich.Orchestrator, coordinator *enrich.Coordinator, aggregator *analytics.Aggregator, resultCache *cache.ResultCache, repo *repository.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		orchestrator: orchestrator,
		coordinator:  coordinator,
		aggregator:   aggregator,
		cache:        resultCache,
		repo:         repo,
		logger:       logger,
	}
}

// EnrichOne enriches a single product, consulting the result cache first.
// Cache and history failures are logged, never surfaced: they are side
// concerns of an otherwise pure computation.
func (s *Service) EnrichOne(ctx context.Context, p domain.Product, cfg domain.EnrichmentConfig) (*domain.EnrichmentResult, error) {
	var fingerprint string
	if s.cache != nil {
		fingerprint = cache.Fingerprint(p, cfg)
		cached, found, err := s.cache.Get(ctx, fingerprint)
		if err != nil {
			s.logger.Warn("cache get failed", "product_id", p.ID, "error", err)
		}
		if found {
			return cached, nil
		}
	}

	result, err := s.orchestrator.EnrichOne(ctx, p, cfg)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, fingerprint, result); err != nil {
			s.logger.Warn("cache set failed", "product_id", p.ID, "error", err)
		}
	}
	s.saveHistory(ctx, result)

	return result, nil
}

// EnrichBatch runs the coordinator and persists the successes.
func (s *Service) EnrichBatch(ctx context.Context, products []domain.Product, cfg domain.EnrichmentConfig) (*domain.BatchResponse, error) {
	start := time.Now()

	items, err := s.coordinator.EnrichBatch(ctx, products, cfg)
	if err != nil {
		return nil, err
	}

	summary := domain.BatchSummary{}
	for _, item := range items {
		if item.Status == domain.StatusSucceeded {
			summary.SuccessCount++
			s.saveHistory(ctx, item.Result)
		} else {
			summary.FailedCount++
		}
	}
	summary.ProcessingTimeMs = time.Since(start).Milliseconds()

	return &domain.BatchResponse{
		Items:       items,
		Summary:     summary,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Analyze builds a fresh analytics report over the products.
func (s *Service) Analyze(_ context.Context, products []domain.Product) (*domain.AnalyticsReport, error) {
	return s.aggregator.Analyze(products)
}

// Stats returns aggregated enrichment history, or empty stats when history
// persistence is disabled.
func (s *Service) Stats(ctx context.Context) (*domain.EnrichmentStats, error) {
	if s.repo == nil {
		return &domain.EnrichmentStats{AppliedTypeCounts: map[string]int64{}}, nil
	}
	return s.repo.Stats(ctx)
}

func (s *Service) saveHistory(ctx context.Context, result *domain.EnrichmentResult) {
	if s.repo == nil || result == nil {
		return
	}
	if err := s.repo.SaveResult(ctx, result); err != nil {
		s.logger.Warn("history save failed", "product_id", result.ProductID, "error", err)
	}
}
