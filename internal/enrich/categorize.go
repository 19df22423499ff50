package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkarpova/enrichment-service/internal/domain"
)

// Category inference table, evaluated in order; the first strictly best
// match wins, which keeps inference deterministic.
var categoryTable = []struct {
	name     string
	keywords []string
}{
	{"Electronics", []string{"electronic", "digital", "computer", "phone", "tablet", "camera", "audio", "video"}},
	{"Clothing & Apparel", []string{"shirt", "pants", "dress", "shoes", "jacket", "clothing", "apparel", "fashion"}},
	{"Home & Garden", []string{"home", "garden", "furniture", "decor", "kitchen", "bathroom", "bedroom"}},
	{"Sports & Outdoors", []string{"sports", "outdoor", "fitness", "exercise", "camping", "hiking", "athletic"}},
	{"Books & Media", []string{"book", "dvd", "magazine", "media", "entertainment"}},
	{"Health & Beauty", []string{"health", "beauty", "cosmetic", "skincare", "wellness", "medical"}},
	{"Automotive", []string{"car", "auto", "vehicle", "automotive", "parts"}},
	{"Tools & Hardware", []string{"tool", "hardware", "construction", "repair", "maintenance"}},
}

// Placeholder categories treated the same as an absent one.
var placeholderCategories = map[string]bool{
	"uncategorized": true,
	"other":         true,
	"misc":          true,
}

// Categorization infers a category from title and description keywords. An
// existing real category is never overwritten.
type Categorization struct{}

var _ Strategy = (*Categorization)(nil)

func (c *Categorization) Name() string { return domain.TypeCategorization }

func (c *Categorization) Apply(_ context.Context, p domain.Product, _ domain.EnrichmentConfig) (domain.Patch, bool, []string, error) {
	var patch domain.Patch
	var suggestions []string

	text := strings.ToLower(p.Title + " " + p.Description)
	category := p.Category

	if category == "" || placeholderCategories[strings.ToLower(category)] {
		if best, matches := inferCategory(text); matches > 0 {
			cat := best
			patch.Category = &cat
			original := category
			if original == "" {
				original = "no category"
			}
			suggestions = append(suggestions, fmt.Sprintf("Suggested category: %q -> %q", original, best))
			category = best
		}
	}

	if category != "" {
		if confidence := categoryConfidence(category, text); confidence < 70 {
			suggestions = append(suggestions, fmt.Sprintf(
				"Category confidence is low (%.0f%%) - manual review recommended", confidence))
		}
	}

	return patch, !patch.Empty(), suggestions, nil
}

func inferCategory(text string) (string, int) {
	best := ""
	bestMatches := 0
	for _, entry := range categoryTable {
		matches := 0
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				matches++
			}
		}
		if matches > bestMatches {
			best = entry.name
			bestMatches = matches
		}
	}
	return best, bestMatches
}

// categoryConfidence is 30% base plus 20% per supporting keyword match,
// or a flat 50% for categories outside the table.
func categoryConfidence(category, text string) float64 {
	lower := strings.ToLower(category)
	for _, entry := range categoryTable {
		if !strings.Contains(lower, strings.ToLower(strings.Split(entry.name, " ")[0])) {
			continue
		}
		matches := 0
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				matches++
			}
		}
		confidence := 30 + float64(matches)*20
		if confidence > 100 {
			confidence = 100
		}
		return confidence
	}
	return 50
}
