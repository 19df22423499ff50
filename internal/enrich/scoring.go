package enrich

import (
	"context"

	"github.com/mkarpova/enrichment-service/internal/domain"
	"github.com/mkarpova/enrichment-service/internal/quality"
)

// QualityScoring never changes the product. It forces a metrics computation
// on the current working copy and turns low dimensions into suggestions.
type QualityScoring struct{}

var _ Strategy = (*QualityScoring)(nil)

func (q *QualityScoring) Name() string { return domain.TypeQualityScoring }

func (q *QualityScoring) Apply(_ context.Context, p domain.Product, cfg domain.EnrichmentConfig) (domain.Patch, bool, []string, error) {
	metrics, err := quality.NewScorer(cfg.SEOKeywords).Score(p)
	if err != nil {
		return domain.Patch{}, false, nil, err
	}

	var suggestions []string
	if metrics[domain.MetricCompleteness] < 80 {
		suggestions = append(suggestions, "Product information is incomplete - consider adding missing fields")
	}
	if metrics[domain.MetricSEOScore] < 75 {
		suggestions = append(suggestions, "SEO coverage is below target - optimize title, description and metadata")
	}
	if metrics[domain.MetricContentQuality] < 70 {
		suggestions = append(suggestions, "Description quality could be improved - add more details and benefits")
	}
	return domain.Patch{}, false, suggestions, nil
}
