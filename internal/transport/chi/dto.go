package chi

import (
	"time"

	domana "github.com/juris-cloud/lexidex/internal/domain/analytics"
	"github.com/juris-cloud/lexidex/internal/domain/search/result"
	searchuc "github.com/juris-cloud/lexidex/internal/usecase/search"
)

type searchRequest struct {
	Query          string         `json:"query"`
	Filters        filtersRequest `json:"filters"`
	Limit          int            `json:"limit,omitempty"`
	SemanticWeight *float64       `json:"semantic_weight,omitempty"`
	DisableKeyword bool           `json:"disable_keyword,omitempty"`
}

type filtersRequest struct {
	DocType       string `json:"doc_type,omitempty"`
	Scope         string `json:"scope,omitempty"`
	OnlyActive    bool   `json:"only_active,omitempty"`
	OnlyPublished bool   `json:"only_published,omitempty"`
}

type searchResponse struct {
	Results         []resultResponse `json:"results"`
	Total           int              `json:"total"`
	Query           string           `json:"query"`
	ExecutionTimeMs int64            `json:"execution_time_ms"`
	SearchType      string           `json:"search_type"`
	SearchQueryID   string           `json:"search_query_id"`
}

type resultResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Number          string    `json:"number,omitempty"`
	DocType         string    `json:"doc_type,omitempty"`
	Scope           string    `json:"scope,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	PublishedAt     time.Time `json:"published_at,omitzero"`
	SimilarityScore float64   `json:"similarity_score"`
	RelevanceScore  float64   `json:"relevance_score"`
	MatchType       string    `json:"match_type"`
	Excerpt         string    `json:"excerpt,omitempty"`
}

type queryStatResponse struct {
	Query          string    `json:"query"`
	Count          int       `json:"count"`
	AvgDurationMs  float64   `json:"avg_duration_ms"`
	AvgResultCount float64   `json:"avg_result_count"`
	LastSeen       time.Time `json:"last_seen"`
}

type documentStatResponse struct {
	DocumentID string    `json:"document_id"`
	Title      string    `json:"title"`
	Number     string    `json:"number,omitempty"`
	ViewCount  int       `json:"view_count"`
	LastViewed time.Time `json:"last_viewed"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toSearchResponse(resp *searchuc.Response) searchResponse {
	out := searchResponse{
		Results:         make([]resultResponse, 0, len(resp.Results)),
		Total:           resp.Total,
		Query:           resp.Query,
		ExecutionTimeMs: resp.ExecutionTimeMs,
		SearchType:      resp.SearchType,
		SearchQueryID:   resp.SearchQueryID,
	}
	for i := range resp.Results {
		out.Results = append(out.Results, toResultResponse(&resp.Results[i]))
	}
	return out
}

func toResultResponse(r *result.Scored) resultResponse {
	doc := r.Document()
	return resultResponse{
		ID:              doc.ID,
		Title:           doc.Title,
		Number:          doc.Number,
		DocType:         doc.DocType,
		Scope:           doc.Scope,
		Summary:         doc.Summary,
		PublishedAt:     doc.PublishedAt,
		SimilarityScore: r.Similarity(),
		RelevanceScore:  r.Relevance(),
		MatchType:       string(r.MatchType()),
		Excerpt:         r.Excerpt(),
	}
}

func toQueryStatResponses(stats []domana.QueryStat) []queryStatResponse {
	out := make([]queryStatResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, queryStatResponse{
			Query:          s.Query,
			Count:          s.Count,
			AvgDurationMs:  s.AvgDurationMs,
			AvgResultCount: s.AvgResultCount,
			LastSeen:       s.LastSeen,
		})
	}
	return out
}

func toDocumentStatResponses(stats []domana.DocumentStat) []documentStatResponse {
	out := make([]documentStatResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, documentStatResponse{
			DocumentID: s.DocumentID,
			Title:      s.Title,
			Number:     s.Number,
			ViewCount:  s.ViewCount,
			LastViewed: s.LastViewed,
		})
	}
	return out
}
