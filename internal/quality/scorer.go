// Package quality computes content-quality dimensions for catalog products.
// Every function here is deterministic and side-effect free: the orchestrator
// relies on that for before/after comparison, and analytics for reproducible
// reports.
package quality

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/mkarpova/enrichment-service/internal/domain"
)

// Completeness weights per field. Presence of a field earns its weight.
const (
	weightTitle       = 25.0
	weightDescription = 25.0
	weightPrice       = 15.0
	weightCategory    = 15.0
	weightBrand       = 10.0
	weightImages      = 10.0
	weightTotal       = weightTitle + weightDescription + weightPrice + weightCategory + weightBrand + weightImages
)

// Title and description length bands for the SEO dimension, measured in
// runes. Strategies use the same bands so their edits never leave a product
// in a worse band.
const (
	TitleIdealMin = 30
	TitleIdealMax = 60
	TitleOuterMin = 20
	TitleOuterMax = 80

	DescriptionIdealMin = 150
	DescriptionIdealMax = 300
	DescriptionOuterMin = 100
	DescriptionOuterMax = 500
)

// Scorer computes QualityMetrics for a product. Keywords influence only the
// seo_score dimension; a Scorer with no keywords treats the keyword component
// as satisfied.
type Scorer struct {
	keywords []string
}

func NewScorer(keywords []string) *Scorer {
	kw := make([]string, len(keywords))
	copy(kw, keywords)
	return &Scorer{keywords: kw}
}

// Score computes all dimensions for the product. A product without an ID is
// a normalizer contract violation and yields a ScoringError.
func (s *Scorer) Score(p domain.Product) (domain.QualityMetrics, error) {
	if p.ID == "" {
		return nil, &domain.ScoringError{Msg: "product has no id"}
	}
	return domain.QualityMetrics{
		domain.MetricCompleteness:   s.Completeness(p),
		domain.MetricSEOScore:       s.SEOScore(p),
		domain.MetricContentQuality: s.ContentQuality(p),
	}, nil
}

// Completeness is a weighted presence check across the fields that matter
// for catalog quality, scaled to 0-100.
func (s *Scorer) Completeness(p domain.Product) float64 {
	var present float64
	if p.Title != "" {
		present += weightTitle
	}
	if p.Description != "" {
		present += weightDescription
	}
	if p.Price != nil && *p.Price >= 0 {
		present += weightPrice
	}
	if p.Category != "" {
		present += weightCategory
	}
	if p.Brand != "" {
		present += weightBrand
	}
	if len(p.Images) > 0 {
		present += weightImages
	}
	return clamp(round2(present / weightTotal * 100))
}

// SEOScore combines title length band (40), configured keyword presence (30)
// and description length band (30).
func (s *Scorer) SEOScore(p domain.Product) float64 {
	score := TitleBandScore(p.Title)

	if len(s.keywords) == 0 {
		score += 30
	} else {
		found := 0
		haystack := strings.ToLower(p.Title + " " + p.Description)
		for _, kw := range s.keywords {
			if strings.Contains(haystack, strings.ToLower(kw)) {
				found++
			}
		}
		score += math.Min(30, float64(found)*10)
	}

	score += DescriptionBandScore(p.Description)
	return clamp(round2(score))
}

// ContentQuality combines description length (30), sentence structure (20),
// absence of word repetition (10), attribute richness (25) and image
// coverage (15).
func (s *Scorer) ContentQuality(p domain.Product) float64 {
	score := DescriptionBandScore(p.Description)
	score += SentenceScore(p.Description)
	score += RepetitionScore(p.Description)
	score += math.Min(25, float64(len(p.Attributes))*5)
	score += math.Min(15, float64(len(p.Images))*5)
	return clamp(round2(score))
}

// TitleBandScore scores a title's rune length against the SEO bands: 40
// inside the ideal band, 25 in the outer band, 10 for any other non-empty
// title.
func TitleBandScore(title string) float64 {
	length := utf8.RuneCountInString(title)
	switch {
	case length == 0:
		return 0
	case length >= TitleIdealMin && length <= TitleIdealMax:
		return 40
	case length >= TitleOuterMin && length <= TitleOuterMax:
		return 25
	default:
		return 10
	}
}

// DescriptionBandScore scores a description's rune length: 30 inside the
// ideal band, 20 in the outer band, 10 for any other non-empty description.
func DescriptionBandScore(desc string) float64 {
	length := utf8.RuneCountInString(desc)
	switch {
	case length == 0:
		return 0
	case length >= DescriptionIdealMin && length <= DescriptionIdealMax:
		return 30
	case length >= DescriptionOuterMin && length <= DescriptionOuterMax:
		return 20
	default:
		return 10
	}
}

// SentenceScore rewards punctuated prose: 20 for 2-5 terminated sentences,
// 10 for at least one, 0 otherwise.
func SentenceScore(text string) float64 {
	n := sentenceCount(text)
	switch {
	case n >= 2 && n <= 5:
		return 20
	case n >= 1:
		return 10
	default:
		return 0
	}
}

// RepetitionScore is 10 when the text contains no immediately repeated word.
func RepetitionScore(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			return 0
		}
	}
	return 10
}

// Mean averages all dimension values, rounded to two decimals.
func Mean(metrics domain.QualityMetrics) float64 {
	if len(metrics) == 0 {
		return 0
	}
	var sum float64
	for _, v := range metrics {
		sum += v
	}
	return round2(sum / float64(len(metrics)))
}

func sentenceCount(text string) int {
	n := 0
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	// text without terminal punctuation is not counted as a sentence
	if n > 0 && !strings.ContainsAny(text, ".!?") {
		return 0
	}
	return n
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
