package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkarpova/enrichment-service/internal/domain"
	"github.com/mkarpova/enrichment-service/internal/quality"
)

// Orchestrator runs one product through the configured strategy sequence and
// emits a single EnrichmentResult. A strategy failure discards all partial
// progress for that product; retries are the batch coordinator's concern.
type Orchestrator struct {
	registry *Registry
	logger   *slog.Logger
}

func NewOrchestrator(registry *Registry, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{registry: registry, logger: logger}
}

func (o *Orchestrator) Registry() *Registry { return o.registry }

// EnrichOne validates the config, applies the enabled strategies in order
// against a working copy, and scores the outcome. The original product is
// retained untouched alongside the enriched copy.
func (o *Orchestrator) EnrichOne(ctx context.Context, p domain.Product, cfg domain.EnrichmentConfig) (*domain.EnrichmentResult, error) {
	if err := o.registry.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	scorer := quality.NewScorer(cfg.SEOKeywords)
	before, err := scorer.Score(p)
	if err != nil {
		return nil, err
	}

	working := p.Clone()
	var applied []string
	var suggestions []string

	for _, name := range cfg.EnabledTypes {
		strategy, err := o.registry.Resolve(name)
		if err != nil {
			// unreachable after ValidateConfig, kept for direct callers
			return nil, &domain.ValidationError{Field: "enabled_types", Msg: err.Error()}
		}

		patch, changed, strategySuggestions, err := strategy.Apply(ctx, working, cfg)
		if err != nil {
			return nil, &domain.StrategyError{Strategy: name, Err: err}
		}
		suggestions = append(suggestions, strategySuggestions...)
		if changed {
			working = patch.ApplyTo(working)
			applied = append(applied, name)
		}
	}

	after, err := scorer.Score(working)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("product enriched",
		"product_id", p.ID,
		"applied", applied,
		"score_before", quality.Mean(before),
		"score_after", quality.Mean(after),
	)

	return &domain.EnrichmentResult{
		ProductID:          p.ID,
		OriginalProduct:    p,
		EnrichedProduct:    working,
		EnrichmentScore:    quality.Mean(after),
		AppliedEnrichments: applied,
		Suggestions:        suggestions,
		QualityMetrics:     after,
		GeneratedAt:        time.Now().UTC(),
	}, nil
}
