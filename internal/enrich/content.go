package enrich

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mkarpova/enrichment-service/internal/domain"
	"github.com/mkarpova/enrichment-service/internal/quality"
	"github.com/mkarpova/enrichment-service/internal/textgen"
)

const shortTitleThreshold = 20

// ContentGeneration fills missing or thin titles and descriptions from the
// product's own facts. It never shortens an adequate description. A remote
// generator is optional: when absent or failing, templates take over so the
// strategy degrades in quality, not in availability.
type ContentGeneration struct {
	gen      textgen.Generator
	fallback *textgen.TemplateGenerator
}

var _ Strategy = (*ContentGeneration)(nil)

func NewContentGeneration(gen textgen.Generator) *ContentGeneration {
	return &ContentGeneration{gen: gen, fallback: textgen.NewTemplateGenerator()}
}

func (c *ContentGeneration) Name() string { return domain.TypeContentGeneration }

func (c *ContentGeneration) Apply(ctx context.Context, p domain.Product, cfg domain.EnrichmentConfig) (domain.Patch, bool, []string, error) {
	var patch domain.Patch
	var suggestions []string

	workingTitle := p.Title
	if utf8.RuneCountInString(p.Title) < shortTitleThreshold {
		if enhanced := buildEnhancedTitle(p); enhanced != "" && enhanced != p.Title &&
			quality.TitleBandScore(enhanced) >= quality.TitleBandScore(p.Title) {
			t := enhanced
			patch.Title = &t
			workingTitle = enhanced
			original := p.Title
			if original == "" {
				original = "no title"
			}
			suggestions = append(suggestions, fmt.Sprintf("Generated enhanced title: %q -> %q", original, enhanced))
		}
	}

	if utf8.RuneCountInString(p.Description) < quality.DescriptionOuterMin {
		// replacing the description must not drop configured keywords the
		// old text provided, or seo_score would regress
		if desc := c.generateDescription(ctx, p, workingTitle); desc != "" &&
			utf8.RuneCountInString(desc) > utf8.RuneCountInString(p.Description) &&
			quality.DescriptionBandScore(desc) >= quality.DescriptionBandScore(p.Description) &&
			quality.SentenceScore(desc) >= quality.SentenceScore(p.Description) &&
			quality.RepetitionScore(desc) >= quality.RepetitionScore(p.Description) &&
			countKeywords(cfg.SEOKeywords, workingTitle+" "+desc) >= countKeywords(cfg.SEOKeywords, workingTitle+" "+p.Description) {
			d := desc
			patch.Description = &d
			suggestions = append(suggestions, "Generated comprehensive product description")
		}
	}

	if len(p.Attributes) > 0 {
		if _, ok := p.Attributes["key_features"]; !ok {
			if bullets := buildKeyFeatures(p.Attributes); bullets != "" {
				patch.Attributes = map[string]string{"key_features": bullets}
				suggestions = append(suggestions, "Generated key feature bullet points")
			}
		}
	}

	return patch, !patch.Empty(), suggestions, nil
}

func (c *ContentGeneration) generateDescription(ctx context.Context, p domain.Product, title string) string {
	pc := textgen.PromptContext{
		Title:      title,
		Brand:      p.Brand,
		Category:   p.Category,
		Attributes: p.Attributes,
	}
	if c.gen != nil {
		if text, err := c.gen.Generate(ctx, pc); err == nil && text != "" {
			return text
		}
	}
	text, err := c.fallback.Generate(ctx, pc)
	if err != nil {
		return ""
	}
	return text
}

// Attribute keys most worth surfacing in a generated title.
var titleAttrKeys = []string{"color", "size", "model", "type", "material"}

func buildEnhancedTitle(p domain.Product) string {
	var components []string
	if p.Brand != "" {
		components = append(components, p.Brand)
	}
	switch {
	case p.Title != "":
		components = append(components, p.Title)
	case p.SKU != "":
		components = append(components, "Product "+p.SKU)
	}
	for _, key := range titleAttrKeys {
		if v, ok := p.Attributes[key]; ok && utf8.RuneCountInString(strings.Join(components, " ")) < 40 {
			components = append(components, v)
		}
	}
	if p.Category != "" && utf8.RuneCountInString(strings.Join(components, " ")) < 45 {
		components = append(components, p.Category)
	}
	title := strings.Join(components, " ")
	if utf8.RuneCountInString(title) > quality.TitleIdealMax {
		title = strings.TrimSpace(truncateRunes(title, quality.TitleIdealMax))
	}
	return title
}

// Attribute keys listed first in generated bullet points.
var featureAttrKeys = []string{"material", "color", "size", "weight", "dimensions", "capacity", "power", "warranty", "compatibility"}

func buildKeyFeatures(attrs map[string]string) string {
	var bullets []string
	add := func(key, value string) {
		if len(bullets) < 5 && utf8.RuneCountInString(value) < 50 {
			bullets = append(bullets, fmt.Sprintf("- %s: %s", titleCase(strings.ReplaceAll(key, "_", " ")), value))
		}
	}
	used := map[string]bool{}
	for _, key := range featureAttrKeys {
		if v, ok := attrs[key]; ok {
			add(key, v)
			used[key] = true
		}
	}
	rest := make([]string, 0, len(attrs))
	for k := range attrs {
		if !used[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		add(k, attrs[k])
	}
	return strings.Join(bullets, "\n")
}
