package match

// Type describes which retrieval path discovered a result.
type Type string

// Match type constants.
const (
	// Semantic means the document was found only by vector similarity.
	Semantic Type = "SEMANTIC"
	// Keyword means the document was found only by keyword search.
	Keyword Type = "KEYWORD"
	// Hybrid means the document was found by both paths and carries a fused score.
	Hybrid Type = "HYBRID"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	return t == Semantic || t == Keyword || t == Hybrid
}
