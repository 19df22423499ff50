package enrich

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mkarpova/enrichment-service/internal/domain"
)

// Marketplace title band, distinct from the website SEO band.
const (
	amazonTitleMin   = 150
	amazonTitleMax   = 200
	amazonSearchMax  = 250
	amazonBulletMax  = 5
	marketplaceScore = 70
)

// AmazonOptimization reformats content toward marketplace constraints. All
// output lands in dedicated attributes; the website-facing title and
// description are left alone, keeping it independent of seo_optimization.
type AmazonOptimization struct{}

var _ Strategy = (*AmazonOptimization)(nil)

func (a *AmazonOptimization) Name() string { return domain.TypeAmazonOptimization }

func (a *AmazonOptimization) Apply(_ context.Context, p domain.Product, cfg domain.EnrichmentConfig) (domain.Patch, bool, []string, error) {
	if !cfg.HasChannel("amazon") {
		return domain.Patch{}, false, nil, nil
	}

	attrs := map[string]string{}
	var suggestions []string

	if p.Title != "" {
		if _, ok := p.Attributes["amazon_title"]; !ok {
			attrs["amazon_title"] = buildAmazonTitle(p)
			suggestions = append(suggestions, "Created marketplace-optimized title")
		}
	}

	if _, ok := p.Attributes["amazon_bullet_points"]; !ok {
		if bullets := buildAmazonBullets(p); bullets != "" {
			attrs["amazon_bullet_points"] = bullets
			suggestions = append(suggestions, "Generated marketplace bullet points")
		}
	}

	if _, ok := p.Attributes["amazon_search_terms"]; !ok {
		if terms := buildSearchTerms(p); terms != "" {
			attrs["amazon_search_terms"] = terms
			suggestions = append(suggestions, "Generated backend search terms")
		}
	}

	if len(attrs) > 0 {
		enriched := domain.Patch{Attributes: attrs}.ApplyTo(p)
		if score := marketplaceReadiness(enriched); score < marketplaceScore {
			suggestions = append(suggestions, fmt.Sprintf(
				"Marketplace readiness is %.1f/100 - consider improving keywords and content", score))
		}
		return domain.Patch{Attributes: attrs}, true, suggestions, nil
	}
	return domain.Patch{}, false, suggestions, nil
}

func buildAmazonTitle(p domain.Product) string {
	var components []string
	if p.Brand != "" {
		components = append(components, p.Brand)
	}
	title := p.Title
	if p.Brand != "" && containsFold(title, p.Brand) {
		title = strings.TrimSpace(strings.ReplaceAll(title, p.Brand, ""))
	}
	if title != "" {
		components = append(components, title)
	}
	keys := []string{"color", "size", "model", "pack_size", "quantity"}
	for _, key := range keys {
		if v, ok := p.Attributes[key]; ok && utf8.RuneCountInString(strings.Join(components, " ")) < amazonTitleMin {
			components = append(components, v)
		}
	}
	out := strings.Join(components, " ")
	if utf8.RuneCountInString(out) > amazonTitleMax {
		out = strings.TrimSpace(truncateRunes(out, amazonTitleMax))
	}
	return out
}

func buildAmazonBullets(p domain.Product) string {
	var bullets []string
	for _, sentence := range strings.Split(p.Description, ".") {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) > 10 && len(bullets) < 3 {
			bullets = append(bullets, "- "+sentence)
		}
	}
	priority := []string{"material", "dimensions", "weight", "warranty", "compatibility"}
	for _, key := range priority {
		if v, ok := p.Attributes[key]; ok && len(bullets) < amazonBulletMax {
			bullets = append(bullets, fmt.Sprintf("- %s: %s", titleCase(strings.ReplaceAll(key, "_", " ")), v))
		}
	}
	if len(bullets) == 0 && p.Category != "" {
		bullets = append(bullets, fmt.Sprintf("- Perfect for %s applications", strings.ToLower(p.Category)))
	}
	return strings.Join(bullets, "\n")
}

func buildSearchTerms(p domain.Product) string {
	seen := map[string]bool{}
	var terms []string
	add := func(term string) {
		term = strings.ToLower(strings.TrimSpace(term))
		if n := utf8.RuneCountInString(term); n <= 2 || n >= 20 || seen[term] || len(terms) >= 20 {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}
	for _, kw := range extractKeywords(p.Title) {
		add(kw)
	}
	for _, kw := range extractKeywords(p.Category) {
		add(kw)
	}
	if p.Brand != "" {
		add(p.Brand)
	}
	attrKeys := make([]string, 0, len(p.Attributes))
	for k := range p.Attributes {
		attrKeys = append(attrKeys, k)
	}
	sort.Strings(attrKeys)
	for _, k := range attrKeys {
		if v := p.Attributes[k]; len(strings.Fields(v)) <= 2 {
			add(v)
		}
	}
	out := strings.Join(terms, " ")
	if utf8.RuneCountInString(out) > amazonSearchMax {
		out = strings.TrimSpace(truncateRunes(out, amazonSearchMax))
	}
	return out
}

// marketplaceReadiness approximates how well the listing satisfies
// marketplace ranking inputs.
func marketplaceReadiness(p domain.Product) float64 {
	var score float64

	if title := p.Attributes["amazon_title"]; title != "" {
		switch length := utf8.RuneCountInString(title); {
		case length >= amazonTitleMin && length <= amazonTitleMax:
			score += 25
		case length >= 100:
			score += 20
		default:
			score += 10
		}
	}
	if bullets := p.Attributes["amazon_bullet_points"]; bullets != "" {
		switch n := len(strings.Split(bullets, "\n")); {
		case n >= amazonBulletMax:
			score += 20
		case n >= 3:
			score += 15
		default:
			score += 5
		}
	}
	if terms := p.Attributes["amazon_search_terms"]; terms != "" {
		switch n := utf8.RuneCountInString(terms); {
		case n > 100:
			score += 15
		case n > 50:
			score += 10
		default:
			score += 5
		}
	}
	switch n := len(p.Images); {
	case n >= 7:
		score += 15
	case n >= 5:
		score += 12
	case n >= 3:
		score += 8
	case n >= 1:
		score += 3
	}
	if p.Price != nil {
		score += 10
	}
	if p.Category != "" {
		score += 10
	}
	if p.Brand != "" {
		score += 5
	}
	return score
}
