package search

import (
	"sort"

	"github.com/juris-cloud/lexidex/internal/domain/document"
	"github.com/juris-cloud/lexidex/internal/domain/search/match"
	"github.com/juris-cloud/lexidex/internal/domain/search/result"
)

// fuseWeighted merges semantic and keyword hits into one ranked list.
//
// Semantic hits seed the pool with relevance = similarity x semanticWeight.
// A keyword hit for an already-seen document adds its weighted keyword score
// and promotes the match type to HYBRID, leaving the similarity untouched;
// an unseen document enters with similarity 0 and type KEYWORD.
//
// The sort is stable over insertion order (semantic entries first), so a
// semantic/keyword relevance tie ranks the semantic-discovered document
// ahead. At most one entry per document identifier survives.
//
// Returns the truncated list plus the pool size before truncation.
func fuseWeighted(
	queryText string,
	semantic, keyword []document.Hit,
	semanticWeight float64, limit int,
) ([]result.Scored, int) {
	keywordWeight := 1 - semanticWeight

	merged := make([]result.Scored, 0, len(semantic)+len(keyword))
	index := make(map[string]int, len(semantic)+len(keyword))

	for _, hit := range semantic {
		if _, ok := index[hit.Doc.ID]; ok {
			continue
		}
		index[hit.Doc.ID] = len(merged)
		merged = append(merged, result.New(
			hit.Doc, hit.Similarity, hit.Similarity*semanticWeight, match.Semantic, "",
		))
	}

	for _, hit := range keyword {
		score := keywordScore(queryText, hit.Doc, hit.Rank)
		weighted := score * keywordWeight

		if i, ok := index[hit.Doc.ID]; ok {
			existing := merged[i]
			merged[i] = result.New(
				existing.Document(), existing.Similarity(),
				existing.Relevance()+weighted, match.Hybrid, "",
			)
			continue
		}
		index[hit.Doc.ID] = len(merged)
		merged = append(merged, result.New(hit.Doc, 0, weighted, match.Keyword, ""))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Relevance() > merged[j].Relevance()
	})

	found := len(merged)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, found
}
