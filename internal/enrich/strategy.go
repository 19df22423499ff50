// Package enrich implements the content-enrichment pipeline: pluggable
// strategies, the per-product orchestrator and the batch coordinator.
package enrich

import (
	"context"
	"fmt"

	"github.com/mkarpova/enrichment-service/internal/domain"
	"github.com/mkarpova/enrichment-service/internal/textgen"
)

// Strategy is one pluggable enrichment transform. Apply returns a sparse
// patch with only the fields it wants to change, whether any beneficial
// change was found, and advisory suggestions. Strategies are stateless and
// must not rely on execution order beyond running after earlier entries of
// EnabledTypes.
type Strategy interface {
	Name() string
	Apply(ctx context.Context, p domain.Product, cfg domain.EnrichmentConfig) (domain.Patch, bool, []string, error)
}

// Registry maps strategy identifiers to implementations. Config validation
// resolves identifiers here so unknown types fail before any product is
// processed.
type Registry struct {
	strategies map[string]Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// NewDefaultRegistry registers the full built-in strategy set. The generator
// may be nil; content generation then falls back to templates.
func NewDefaultRegistry(gen textgen.Generator) *Registry {
	r := NewRegistry()
	r.Register(&SEOOptimization{})
	r.Register(NewContentGeneration(gen))
	r.Register(&AmazonOptimization{})
	r.Register(&Categorization{})
	r.Register(&QualityScoring{})
	return r
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(s Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[s.Name()] = s
}

// Resolve returns a strategy by identifier.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if s, ok := r.strategies[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("enrichment type %q is not registered", name)
}

// ValidateConfig rejects malformed configuration before any work starts.
func (r *Registry) ValidateConfig(cfg domain.EnrichmentConfig) error {
	if len(cfg.EnabledTypes) == 0 {
		return &domain.ValidationError{Field: "enabled_types", Msg: "at least one enrichment type is required"}
	}
	for _, name := range cfg.EnabledTypes {
		if _, ok := r.strategies[name]; !ok {
			return &domain.ValidationError{Field: "enabled_types", Msg: fmt.Sprintf("unknown enrichment type %q", name)}
		}
	}
	if len(cfg.Languages) == 0 {
		return &domain.ValidationError{Field: "languages", Msg: "must not be empty"}
	}
	return nil
}
