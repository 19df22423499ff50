package domain

import "time"

// Bucket is one fixed-width score band in a distribution.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DimensionStats holds distributional statistics for one quality dimension.
type DimensionStats struct {
	Average      float64  `json:"average"`
	Median       float64  `json:"median"`
	Min          float64  `json:"min"`
	Max          float64  `json:"max"`
	Distribution []Bucket `json:"distribution"`
}

// AnalyticsReport is recomputed fresh on every analytics request and never
// persisted by the core.
type AnalyticsReport struct {
	ReportID        string                    `json:"report_id"`
	TotalProducts   int                       `json:"total_products"`
	Dimensions      map[string]DimensionStats `json:"dimensions"`
	Recommendations []string                  `json:"recommendations"`
	GeneratedAt     time.Time                 `json:"generated_at"`
}
