package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filter       string // prebuilt FT.SEARCH filter expression, empty for none
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is the input for full-text keyword search.
type TextQuery struct {
	IndexName    string
	Query        string
	Filter       string
	TopK         int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
