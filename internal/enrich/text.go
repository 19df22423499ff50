package enrich

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var wordPattern = regexp.MustCompile(`[a-zA-Z]{4,}`)

var stopWords = map[string]bool{
	"with": true, "from": true, "this": true, "that": true, "have": true,
	"will": true, "your": true, "them": true, "they": true, "been": true,
	"more": true, "when": true, "than": true, "also": true, "into": true,
	"features": true, "product": true,
}

// extractKeywords pulls lowercase candidate keywords out of free text,
// preserving first-seen order for determinism.
func extractKeywords(text string) []string {
	if text == "" {
		return nil
	}
	seen := map[string]bool{}
	var keywords []string
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}
	return keywords
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// countKeywords reports how many of the keywords appear in the text,
// case-insensitively.
func countKeywords(keywords []string, text string) int {
	n := 0
	for _, kw := range keywords {
		if containsFold(text, kw) {
			n++
		}
	}
	return n
}

// truncateRunes cuts s to at most limit runes without splitting a rune.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// titleCase upper-cases the first letter of every word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// firstSentence returns the text up to the first period, capped at limit
// runes with an ellipsis.
func firstSentence(text string, limit int) string {
	s := text
	if idx := strings.Index(s, "."); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > limit {
		s = truncateRunes(s, limit) + "..."
	}
	return s
}
