package enrich

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mkarpova/enrichment-service/internal/domain"
	"github.com/mkarpova/enrichment-service/internal/quality"
)

const metaDescriptionLimit = 160

// SEOOptimization inserts missing configured keywords into the title and
// description when space allows. Every edit is guarded by the scorer's
// length bands so an optimized product never scores below the original.
type SEOOptimization struct{}

var _ Strategy = (*SEOOptimization)(nil)

func (s *SEOOptimization) Name() string { return domain.TypeSEOOptimization }

func (s *SEOOptimization) Apply(_ context.Context, p domain.Product, cfg domain.EnrichmentConfig) (domain.Patch, bool, []string, error) {
	var patch domain.Patch
	var suggestions []string

	title := p.Title
	if title == "" && len(cfg.SEOKeywords) > 0 {
		suggestions = append(suggestions, "Add a title so SEO keywords can be applied to it")
	}

	workingTitle := title
	if title != "" {
		for _, kw := range cfg.SEOKeywords {
			if containsFold(workingTitle, kw) {
				continue
			}
			candidate := workingTitle + " " + kw
			if utf8.RuneCountInString(candidate) <= quality.TitleIdealMax &&
				quality.TitleBandScore(candidate) >= quality.TitleBandScore(workingTitle) {
				workingTitle = candidate
			} else {
				suggestions = append(suggestions, fmt.Sprintf(
					"Keyword %q does not fit the title within the %d-character SEO limit", kw, quality.TitleIdealMax))
			}
		}
		if workingTitle != title {
			t := workingTitle
			patch.Title = &t
			suggestions = append(suggestions, fmt.Sprintf("Optimized title for SEO: %q -> %q", title, workingTitle))
		}
	}

	if p.Description != "" {
		workingDesc := p.Description
		for _, kw := range cfg.SEOKeywords {
			if containsFold(workingTitle+" "+workingDesc, kw) {
				continue
			}
			candidate := strings.TrimRight(workingDesc, " ") + fmt.Sprintf(" Features %s.", kw)
			if quality.DescriptionBandScore(candidate) >= quality.DescriptionBandScore(workingDesc) &&
				quality.SentenceScore(candidate) >= quality.SentenceScore(workingDesc) &&
				quality.RepetitionScore(candidate) >= quality.RepetitionScore(workingDesc) {
				workingDesc = candidate
			} else {
				suggestions = append(suggestions, fmt.Sprintf(
					"Keyword %q cannot be added to the description without degrading it", kw))
			}
		}
		if workingDesc != p.Description {
			d := workingDesc
			patch.Description = &d
			suggestions = append(suggestions, "Enhanced description with SEO keywords")
		}
	}

	if _, ok := p.Attributes["meta_description"]; !ok {
		if meta := buildMetaDescription(p); meta != "" {
			patch.Attributes = map[string]string{"meta_description": meta}
			suggestions = append(suggestions, "Generated SEO meta description")
		}
	}

	return patch, !patch.Empty(), suggestions, nil
}

func buildMetaDescription(p domain.Product) string {
	if p.Title == "" && p.Description == "" {
		return ""
	}
	var parts []string
	if p.Title != "" {
		parts = append(parts, p.Title)
	}
	if p.Description != "" {
		parts = append(parts, firstSentence(p.Description, 100))
	}
	if p.Brand != "" {
		parts = append(parts, "by "+p.Brand)
	}
	if p.Price != nil {
		parts = append(parts, fmt.Sprintf("$%.2f", *p.Price))
	}
	meta := strings.Join(parts, ". ")
	if utf8.RuneCountInString(meta) > metaDescriptionLimit {
		meta = truncateRunes(meta, metaDescriptionLimit-3) + "..."
	}
	return meta
}
