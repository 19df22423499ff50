package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mkarpova/enrichment-service/internal/domain"
)

const defaultWorkers = 5

// Failure kinds reported per batch item.
const (
	ErrKindStrategy = "strategy_error"
	ErrKindScoring  = "scoring_error"
	ErrKindCanceled = "canceled"
	ErrKindInternal = "internal_error"
)

// Coordinator fans one config out over many products with bounded
// concurrency. Results keep input order regardless of completion order, and
// one product's failure never aborts its siblings.
type Coordinator struct {
	orchestrator *Orchestrator
	workers      int
	logger       *slog.Logger
}

func NewCoordinator(orchestrator *Orchestrator, workers int, logger *slog.Logger) *Coordinator {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{orchestrator: orchestrator, workers: workers, logger: logger}
}

// EnrichBatch validates shared config and product IDs up front; either
// failure mode fails the whole call before any per-item work starts. After
// that, each item resolves to its own result or failure record.
//
// Cancelling ctx stops scheduling new products. Items already in flight run
// to completion against a detached context.
func (c *Coordinator) EnrichBatch(ctx context.Context, products []domain.Product, cfg domain.EnrichmentConfig) ([]domain.BatchItem, error) {
	if err := c.orchestrator.Registry().ValidateConfig(cfg); err != nil {
		return nil, err
	}
	for i, p := range products {
		if p.ID == "" {
			return nil, &domain.ScoringError{Msg: fmt.Sprintf("product at index %d has no id", i)}
		}
	}

	results := make([]domain.BatchItem, len(products))
	for i, p := range products {
		results[i] = domain.BatchItem{ProductID: p.ID, Status: domain.StatusPending}
	}

	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup
	detached := context.WithoutCancel(ctx)

	for i := range products {
		if ctx.Err() != nil {
			results[i].Status = domain.StatusFailed
			results[i].ErrorKind = ErrKindCanceled
			results[i].Message = "batch canceled before this product was scheduled"
			continue
		}
		select {
		case <-ctx.Done():
			results[i].Status = domain.StatusFailed
			results[i].ErrorKind = ErrKindCanceled
			results[i].Message = "batch canceled before this product was scheduled"
			continue
		case sem <- struct{}{}: // acquire
		}

		wg.Add(1)
		go func(idx int, product domain.Product) {
			defer wg.Done()
			defer func() { <-sem }() // release
			results[idx] = c.processOne(detached, product, cfg)
		}(i, products[i])
	}
	wg.Wait()

	success := 0
	for _, item := range results {
		if item.Status == domain.StatusSucceeded {
			success++
		}
	}
	c.logger.Info("batch enrichment finished", "total", len(products), "succeeded", success)

	return results, nil
}

func (c *Coordinator) processOne(ctx context.Context, p domain.Product, cfg domain.EnrichmentConfig) domain.BatchItem {
	item := domain.BatchItem{ProductID: p.ID, Status: domain.StatusRunning}

	result, err := c.orchestrator.EnrichOne(ctx, p, cfg)
	if err != nil {
		c.logger.Warn("enrichment failed", "product_id", p.ID, "error", err)
		item.Status = domain.StatusFailed
		item.ErrorKind, item.Message = categorizeError(err)
		return item
	}

	item.Status = domain.StatusSucceeded
	item.Result = result
	return item
}

func categorizeError(err error) (string, string) {
	switch {
	case domain.IsStrategyError(err):
		return ErrKindStrategy, err.Error()
	case domain.IsScoringError(err):
		return ErrKindScoring, err.Error()
	default:
		return ErrKindInternal, "an unexpected error occurred"
	}
}
