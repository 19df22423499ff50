// Package analytics turns batches of products or enrichment outcomes into
// distributional statistics and threshold-driven recommendations.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mkarpova/enrichment-service/internal/domain"
	"github.com/mkarpova/enrichment-service/internal/quality"
)

// Histogram shape: equal-width buckets over [0,100]. A score of exactly 100
// lands in the top bucket.
const (
	numBuckets  = 5
	bucketWidth = 100.0 / numBuckets
)

// Per-product completeness threshold behind the "% of products" figure in
// the completeness recommendation.
const completenessThreshold = 70.0

// Aggregator computes AnalyticsReports. It is stateless and every report is
// recomputed fresh; nothing here persists.
type Aggregator struct {
	scorer *quality.Scorer
}

func NewAggregator() *Aggregator {
	return &Aggregator{scorer: quality.NewScorer(nil)}
}

// Analyze scores every product and aggregates the dimensions.
func (a *Aggregator) Analyze(products []domain.Product) (*domain.AnalyticsReport, error) {
	scores := map[string][]float64{}
	for _, p := range products {
		metrics, err := a.scorer.Score(p)
		if err != nil {
			return nil, err
		}
		for dim, v := range metrics {
			scores[dim] = append(scores[dim], v)
		}
	}
	return buildReport(len(products), scores), nil
}

// AnalyzeResults aggregates already-computed post-enrichment metrics.
func (a *Aggregator) AnalyzeResults(results []domain.EnrichmentResult) *domain.AnalyticsReport {
	scores := map[string][]float64{}
	for _, r := range results {
		for dim, v := range r.QualityMetrics {
			scores[dim] = append(scores[dim], v)
		}
	}
	return buildReport(len(results), scores)
}

func buildReport(total int, scores map[string][]float64) *domain.AnalyticsReport {
	dims := make(map[string]domain.DimensionStats, len(scores))
	for dim, values := range scores {
		dims[dim] = dimensionStats(values)
	}
	return &domain.AnalyticsReport{
		ReportID:        uuid.NewString(),
		TotalProducts:   total,
		Dimensions:      dims,
		Recommendations: recommendations(scores),
		GeneratedAt:     time.Now().UTC(),
	}
}

func dimensionStats(values []float64) domain.DimensionStats {
	if len(values) == 0 {
		return domain.DimensionStats{Distribution: distribution(nil)}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return domain.DimensionStats{
		Average:      round1(mean(values)),
		Median:       round1(median(sorted)),
		Min:          sorted[0],
		Max:          sorted[len(sorted)-1],
		Distribution: distribution(values),
	}
}

func distribution(values []float64) []domain.Bucket {
	buckets := make([]domain.Bucket, numBuckets)
	for i := range buckets {
		lo := i * int(bucketWidth)
		buckets[i].Label = fmt.Sprintf("%d-%d", lo, lo+int(bucketWidth))
	}
	for _, v := range values {
		idx := int(v / bucketWidth)
		if idx >= numBuckets {
			idx = numBuckets - 1
		}
		if idx < 0 {
			idx = 0
		}
		buckets[idx].Count++
	}
	return buckets
}

// Recommendation rule table, evaluated in fixed order. Each rule emits at
// most one recommendation; rules never suppress each other.
var rules = []struct {
	dimension string
	threshold float64
	build     func(avg float64, values []float64) string
}{
	{
		dimension: domain.MetricSEOScore,
		threshold: 60,
		build: func(_ float64, _ []float64) string {
			return "Increase keyword coverage in titles and descriptions"
		},
	},
	{
		dimension: domain.MetricCompleteness,
		threshold: 70,
		build: func(_ float64, values []float64) string {
			below := 0
			for _, v := range values {
				if v < completenessThreshold {
					below++
				}
			}
			pct := int(math.Round(float64(below) / float64(len(values)) * 100))
			return fmt.Sprintf("Add missing brand/category/image data to %d%% of products", pct)
		},
	},
	{
		dimension: domain.MetricContentQuality,
		threshold: 70,
		build: func(avg float64, _ []float64) string {
			return fmt.Sprintf("Overall content quality is below target (%.1f/100) - improve descriptions and attribute coverage", avg)
		},
	},
}

func recommendations(scores map[string][]float64) []string {
	var out []string
	for _, rule := range rules {
		values := scores[rule.dimension]
		if len(values) == 0 {
			continue
		}
		if avg := mean(values); avg < rule.threshold {
			out = append(out, rule.build(avg, values))
		}
	}
	return out
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
