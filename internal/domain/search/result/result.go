package result

import (
	"github.com/juris-cloud/lexidex/internal/domain/document"
	"github.com/juris-cloud/lexidex/internal/domain/search/match"
)

// Scored is a single ranked search hit: a candidate document annotated with
// scores, match provenance, and an optional excerpt. Immutable; fusion
// rebuilds entries instead of mutating them.
type Scored struct {
	doc        document.Candidate
	similarity float64
	relevance  float64
	matchType  match.Type
	excerpt    string
}

// New creates a scored result.
func New(
	doc document.Candidate,
	similarity, relevance float64,
	matchType match.Type,
	excerpt string,
) Scored {
	return Scored{
		doc:        doc,
		similarity: similarity,
		relevance:  relevance,
		matchType:  matchType,
		excerpt:    excerpt,
	}
}

// Document returns the underlying candidate document.
func (s *Scored) Document() document.Candidate { return s.doc }

// ID returns the document identifier (the identity key for deduplication).
func (s *Scored) ID() string { return s.doc.ID }

// Similarity returns the vector similarity score (0 when the document was
// discovered by keyword search only).
func (s *Scored) Similarity() float64 { return s.similarity }

// Relevance returns the fused relevance score used for ranking.
func (s *Scored) Relevance() float64 { return s.relevance }

// MatchType returns which retrieval path discovered the document.
func (s *Scored) MatchType() match.Type { return s.matchType }

// Excerpt returns the bounded snippet around the best textual match.
func (s *Scored) Excerpt() string { return s.excerpt }

// WithExcerpt returns a copy carrying the given excerpt.
func (s *Scored) WithExcerpt(excerpt string) Scored {
	c := *s
	c.excerpt = excerpt
	return c
}
