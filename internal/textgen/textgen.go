// Package textgen provides the optional text-generation collaborator used by
// the content_generation strategy. The pipeline must keep working when no
// remote generator is configured, so a deterministic template generator is
// always available as a fallback.
package textgen

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// PromptContext carries the product facts a generator may draw from.
type PromptContext struct {
	Title      string
	Brand      string
	Category   string
	Attributes map[string]string
}

// Generator produces descriptive text for a product.
type Generator interface {
	Generate(ctx context.Context, pc PromptContext) (string, error)
}

// TemplateGenerator composes a description from templates. It is fully
// deterministic: same context in, same text out.
type TemplateGenerator struct{}

var _ Generator = (*TemplateGenerator)(nil)

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Attribute keys surfaced as specifications, in priority order.
var specKeys = []string{"material", "color", "size", "weight", "dimensions", "capacity"}

func (g *TemplateGenerator) Generate(_ context.Context, pc PromptContext) (string, error) {
	name := strings.TrimSpace(pc.Title)
	if name == "" {
		if pc.Brand == "" {
			return "", fmt.Errorf("template generator needs a title or brand")
		}
		name = pc.Brand + " product"
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Discover the exceptional %s.", name))

	if specs := pickSpecs(pc.Attributes); len(specs) > 0 {
		parts = append(parts, fmt.Sprintf("Key specifications include %s.", strings.Join(specs, ", ")))
	}
	if pc.Category != "" {
		parts = append(parts, fmt.Sprintf("Perfect for %s applications.", strings.ToLower(pc.Category)))
	}
	if pc.Brand != "" {
		parts = append(parts, fmt.Sprintf("Backed by %s's commitment to quality and performance.", pc.Brand))
	}
	parts = append(parts, "Experience the difference today.")

	return strings.Join(parts, " "), nil
}

func pickSpecs(attrs map[string]string) []string {
	if len(attrs) == 0 {
		return nil
	}
	var specs []string
	for _, key := range specKeys {
		if v, ok := attrs[key]; ok && len(specs) < 3 {
			specs = append(specs, fmt.Sprintf("%s: %s", key, v))
		}
	}
	if len(specs) < 3 {
		// fill from remaining attributes in stable order
		rest := make([]string, 0, len(attrs))
		for k := range attrs {
			rest = append(rest, k)
		}
		sort.Strings(rest)
		for _, k := range rest {
			if isSpecKey(k) || len(specs) >= 3 {
				continue
			}
			specs = append(specs, fmt.Sprintf("%s: %s", k, attrs[k]))
		}
	}
	return specs
}

func isSpecKey(k string) bool {
	for _, key := range specKeys {
		if k == key {
			return true
		}
	}
	return false
}
