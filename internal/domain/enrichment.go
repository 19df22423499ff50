package domain

import "time"

// Strategy identifiers accepted in EnrichmentConfig.EnabledTypes.
const (
	TypeSEOOptimization    = "seo_optimization"
	TypeContentGeneration  = "content_generation"
	TypeAmazonOptimization = "amazon_optimization"
	TypeCategorization     = "categorization"
	TypeQualityScoring     = "quality_scoring"
)

// EnrichmentConfig is an immutable value describing one enrichment run.
// EnabledTypes is ordered: later strategies see earlier strategies' output.
type EnrichmentConfig struct {
	EnabledTypes   []string `json:"enabled_types" yaml:"enabledTypes"`
	TargetChannels []string `json:"target_channels,omitempty" yaml:"targetChannels"`
	Languages      []string `json:"languages,omitempty" yaml:"languages"`
	SEOKeywords    []string `json:"seo_keywords,omitempty" yaml:"seoKeywords"`
}

// HasChannel reports whether the channel is targeted. An empty channel list
// targets everything.
func (c EnrichmentConfig) HasChannel(channel string) bool {
	if len(c.TargetChannels) == 0 {
		return true
	}
	for _, ch := range c.TargetChannels {
		if ch == channel {
			return true
		}
	}
	return false
}

// QualityMetrics maps dimension name to a score in [0,100].
type QualityMetrics map[string]float64

// Quality dimension names.
const (
	MetricCompleteness   = "completeness"
	MetricSEOScore       = "seo_score"
	MetricContentQuality = "content_quality"
)

// Patch is a sparse update produced by one strategy. Nil fields are
// untouched; Attributes entries are merged additively, later value wins.
type Patch struct {
	Title       *string
	Description *string
	Category    *string
	Attributes  map[string]string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && len(p.Attributes) == 0
}

// ApplyTo merges the patch into a copy of the product and returns it.
func (p Patch) ApplyTo(product Product) Product {
	out := product.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if len(p.Attributes) > 0 {
		if out.Attributes == nil {
			out.Attributes = make(map[string]string, len(p.Attributes))
		}
		for k, v := range p.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// EnrichmentResult is emitted once per product per successful run and is
// immutable thereafter.
type EnrichmentResult struct {
	ProductID          string         `json:"product_id"`
	OriginalProduct    Product        `json:"original_product"`
	EnrichedProduct    Product        `json:"enriched_product"`
	EnrichmentScore    float64        `json:"enrichment_score"`
	AppliedEnrichments []string       `json:"applied_enrichments"`
	Suggestions        []string       `json:"suggestions"`
	QualityMetrics     QualityMetrics `json:"quality_metrics"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

// Status tracks a product's progress through the orchestrator.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// BatchItem is one slot of a batch outcome: either a result or a failure
// record, never both.
type BatchItem struct {
	ProductID string            `json:"product_id"`
	Status    Status            `json:"status"`
	Result    *EnrichmentResult `json:"result,omitempty"`
	ErrorKind string            `json:"error,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// BatchSummary aggregates per-item statuses for reporting.
type BatchSummary struct {
	SuccessCount     int   `json:"success_count"`
	FailedCount      int   `json:"failed_count"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// BatchResponse is the full outcome of one batch enrichment call.
type BatchResponse struct {
	Items       []BatchItem  `json:"items"`
	Summary     BatchSummary `json:"summary"`
	GeneratedAt string       `json:"generated_at"`
}

// EnrichmentStats summarizes persisted enrichment history.
type EnrichmentStats struct {
	TotalEnrichments  int64            `json:"total_enrichments"`
	AverageScore      float64          `json:"average_score"`
	MinScore          float64          `json:"min_score"`
	MaxScore          float64          `json:"max_score"`
	SuccessRate       float64          `json:"success_rate"`
	AppliedTypeCounts map[string]int64 `json:"applied_enrichment_types"`
}
