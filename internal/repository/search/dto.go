package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/juris-cloud/lexidex/internal/domain/document"
	"github.com/juris-cloud/lexidex/internal/domain/search/query"
)

// candidateFields are the hash fields hydrated into a document.Candidate.
var candidateFields = []string{
	"title", "number", "doc_type", "scope",
	"summary", "__text", "keywords", "published_at",
}

// parseCandidate converts a flat hash map into a candidate document.
func parseCandidate(id string, m map[string]string) document.Candidate {
	c := document.Candidate{
		ID:       id,
		Title:    m["title"],
		Number:   m["number"],
		DocType:  m["doc_type"],
		Scope:    m["scope"],
		Summary:  m["summary"],
		FullText: m["__text"],
	}
	if kw := m["keywords"]; kw != "" {
		c.Keywords = strings.Split(kw, ",")
	}
	if ts := m["published_at"]; ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			c.PublishedAt = t
		}
	}
	return c
}

// buildFilter translates document filters into an FT.SEARCH pre-filter.
func buildFilter(f query.Filters) string {
	var parts []string
	if f.DocType != "" {
		parts = append(parts, buildTagFilter("doc_type", f.DocType))
	}
	if f.Scope != "" {
		parts = append(parts, buildTagFilter("scope", f.Scope))
	}
	if f.OnlyActive {
		parts = append(parts, "@active:{1}")
	}
	if f.OnlyPublished {
		parts = append(parts, "@published:{1}")
	}
	return strings.Join(parts, " ")
}

func buildTagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)
