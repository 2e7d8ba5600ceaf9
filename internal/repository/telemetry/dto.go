package telemetry

import (
	"encoding/json"
	"time"

	domtel "github.com/juris-cloud/lexidex/internal/domain/telemetry"
)

// recordDTO is the stored JSON shape of a telemetry record.
type recordDTO struct {
	ID              string      `json:"id"`
	Query           string      `json:"query"`
	NormalizedQuery string      `json:"normalized_query,omitempty"`
	Timings         timingsDTO  `json:"timings"`
	Context         contextDTO  `json:"context"`
	Sources         []sourceDTO `json:"sources,omitempty"`
	Answer          string      `json:"answer,omitempty"`
	Success         bool        `json:"success"`
	ErrorMessage    string      `json:"error_message,omitempty"`
	UserID          string      `json:"user_id,omitempty"`
	IP              string      `json:"ip,omitempty"`
	UserAgent       string      `json:"user_agent,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

type timingsDTO struct {
	EmbeddingMs    int64 `json:"embedding_ms"`
	SearchMs       int64 `json:"search_ms"`
	ContextBuildMs int64 `json:"context_build_ms"`
	TotalMs        int64 `json:"total_ms"`
}

type contextDTO struct {
	Found    int     `json:"found"`
	Used     int     `json:"used"`
	AvgScore float64 `json:"avg_score"`
	MaxScore float64 `json:"max_score"`
	MinScore float64 `json:"min_score"`
}

type sourceDTO struct {
	DocumentID    string  `json:"document_id"`
	Title         string  `json:"title,omitempty"`
	ChunkIndex    int     `json:"chunk_index"`
	Score         float64 `json:"score"`
	SnippetLength int     `json:"snippet_length"`
}

func marshalRecord(rec *domtel.Record) (string, error) {
	dto := recordDTO{
		ID:              rec.ID,
		Query:           rec.Query,
		NormalizedQuery: rec.NormalizedQuery,
		Timings: timingsDTO{
			EmbeddingMs:    rec.Timings.EmbeddingMs,
			SearchMs:       rec.Timings.SearchMs,
			ContextBuildMs: rec.Timings.ContextBuildMs,
			TotalMs:        rec.Timings.TotalMs,
		},
		Context: contextDTO{
			Found:    rec.Context.Found,
			Used:     rec.Context.Used,
			AvgScore: rec.Context.AvgScore,
			MaxScore: rec.Context.MaxScore,
			MinScore: rec.Context.MinScore,
		},
		Answer:       rec.Answer,
		Success:      rec.Success,
		ErrorMessage: rec.ErrorMessage,
		UserID:       rec.Requester.UserID,
		IP:           rec.Requester.IP,
		UserAgent:    rec.Requester.UserAgent,
		CreatedAt:    rec.CreatedAt,
	}
	for _, s := range rec.Sources {
		dto.Sources = append(dto.Sources, sourceDTO{
			DocumentID:    s.DocumentID,
			Title:         s.Title,
			ChunkIndex:    s.ChunkIndex,
			Score:         s.Score,
			SnippetLength: s.SnippetLength,
		})
	}

	data, err := json.Marshal(dto)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalRecord(data string) (domtel.Record, error) {
	var dto recordDTO
	if err := json.Unmarshal([]byte(data), &dto); err != nil {
		return domtel.Record{}, err
	}

	rec := domtel.Record{
		ID:              dto.ID,
		Query:           dto.Query,
		NormalizedQuery: dto.NormalizedQuery,
		Timings: domtel.Timings{
			EmbeddingMs:    dto.Timings.EmbeddingMs,
			SearchMs:       dto.Timings.SearchMs,
			ContextBuildMs: dto.Timings.ContextBuildMs,
			TotalMs:        dto.Timings.TotalMs,
		},
		Context: domtel.ContextMetrics{
			Found:    dto.Context.Found,
			Used:     dto.Context.Used,
			AvgScore: dto.Context.AvgScore,
			MaxScore: dto.Context.MaxScore,
			MinScore: dto.Context.MinScore,
		},
		Answer:       dto.Answer,
		Success:      dto.Success,
		ErrorMessage: dto.ErrorMessage,
		Requester: domtel.Requester{
			UserID:    dto.UserID,
			IP:        dto.IP,
			UserAgent: dto.UserAgent,
		},
		Status:    domtel.Persisted,
		CreatedAt: dto.CreatedAt,
	}
	for _, s := range dto.Sources {
		rec.Sources = append(rec.Sources, domtel.Source{
			DocumentID:    s.DocumentID,
			Title:         s.Title,
			ChunkIndex:    s.ChunkIndex,
			Score:         s.Score,
			SnippetLength: s.SnippetLength,
		})
	}
	return rec, nil
}
