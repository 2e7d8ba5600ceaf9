package document

// Hit is a backend match: a candidate document with the backend's own
// scoring attached. Similarity is 1-distance in [0,1] for the similarity
// backend and 0 for keyword hits; Rank is the backend's 0-based position.
type Hit struct {
	Doc        Candidate
	Similarity float64
	Rank       int
}
