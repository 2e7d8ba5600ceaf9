package document

import "time"

// Candidate is a document returned by a search backend. Backends produce it,
// the pipeline only annotates it with scores and excerpts, never mutates it.
type Candidate struct {
	ID          string
	Title       string
	Number      string
	DocType     string
	Scope       string
	Summary     string
	FullText    string // empty means the backend holds no body for this document
	Keywords    []string
	PublishedAt time.Time
}

// Meta is the denormalized slice of a document attached to report rows.
type Meta struct {
	ID     string
	Title  string
	Number string
}
