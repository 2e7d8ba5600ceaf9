package search

import "strings"

// Excerpt window sizes in characters.
const (
	excerptBefore   = 100 // context kept before the match
	excerptAfter    = 200 // context kept after the match
	excerptFallback = 300 // leading slice when nothing matches
)

// extractExcerpt produces a bounded preview snippet around the best textual
// match for the query. Empty full text yields no excerpt.
//
// Lookup order: first case-insensitive occurrence of the whole query, then
// of any query word longer than 3 characters, then the leading 300
// characters of the text. Windows carry "..." markers on truncated edges.
func extractExcerpt(fullText, queryText string) string {
	if fullText == "" {
		return ""
	}

	lowerText := strings.ToLower(fullText)
	lowerQuery := strings.ToLower(queryText)

	if idx := strings.Index(lowerText, lowerQuery); idx >= 0 {
		return window(fullText, idx)
	}

	for _, word := range strings.Fields(lowerQuery) {
		if len(word) < minScoreWordLen {
			continue
		}
		if idx := strings.Index(lowerText, word); idx >= 0 {
			return window(fullText, idx)
		}
	}

	if len(fullText) > excerptFallback {
		return fullText[:excerptFallback] + "..."
	}
	return fullText + "..."
}

// window slices [idx-100, idx+200) out of text with ellipsis markers on the
// edges that were cut.
func window(text string, idx int) string {
	start := idx - excerptBefore
	if start < 0 {
		start = 0
	}
	end := idx + excerptAfter
	if end > len(text) {
		end = len(text)
	}

	snippet := text[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet += "..."
	}
	return snippet
}
