package search

import (
	"strings"

	"github.com/juris-cloud/lexidex/internal/domain/document"
)

// Keyword scoring heuristic parameters.
const (
	keywordBaseScore = 0.8  // any text match
	titleMatchBonus  = 0.2  // whole query appears in the title
	keywordHitBonus  = 0.05 // per query-word/document-keyword pair
	rankPenalty      = 0.01 // per backend rank position, keeps backend ordering as a tiebreaker
	minScoreWordLen  = 4    // query words shorter than this carry no keyword bonus
)

// keywordScore rates one keyword-backend hit in [0,1].
//
// Base 0.8 for any match; +0.2 when the whole query is a case-insensitive
// substring of the title; +0.05 for every (query word, document keyword)
// substring pair — accumulation is deliberately unbounded before the final
// clamp, more keyword hits rank higher; -0.01 per backend rank position.
func keywordScore(queryText string, doc document.Candidate, rank int) float64 {
	score := keywordBaseScore

	lowerQuery := strings.ToLower(queryText)
	if strings.Contains(strings.ToLower(doc.Title), lowerQuery) {
		score += titleMatchBonus
	}

	for _, word := range strings.Fields(lowerQuery) {
		if len(word) < minScoreWordLen {
			continue
		}
		for _, kw := range doc.Keywords {
			if strings.Contains(strings.ToLower(kw), word) {
				score += keywordHitBonus
			}
		}
	}

	score -= rankPenalty * float64(rank)

	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}
