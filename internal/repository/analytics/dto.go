package analytics

import (
	"encoding/json"
	"time"

	domana "github.com/juris-cloud/lexidex/internal/domain/analytics"
)

type queryLogDTO struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	HasResults  bool      `json:"has_results"`
	DurationMs  int64     `json:"duration_ms"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type viewDTO struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	UserID     string    `json:"user_id,omitempty"`
	IP         string    `json:"ip,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func marshalQueryLog(e *domana.QueryLog) (string, error) {
	data, err := json.Marshal(queryLogDTO{
		ID:          e.ID,
		Query:       e.Query,
		ResultCount: e.ResultCount,
		HasResults:  e.HasResults,
		DurationMs:  e.DurationMs,
		UserID:      e.UserID,
		CreatedAt:   e.CreatedAt,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalQueryLog(data string) (domana.QueryLog, error) {
	var dto queryLogDTO
	if err := json.Unmarshal([]byte(data), &dto); err != nil {
		return domana.QueryLog{}, err
	}
	return domana.QueryLog{
		ID:          dto.ID,
		Query:       dto.Query,
		ResultCount: dto.ResultCount,
		HasResults:  dto.HasResults,
		DurationMs:  dto.DurationMs,
		UserID:      dto.UserID,
		CreatedAt:   dto.CreatedAt,
	}, nil
}

func marshalView(e *domana.DocumentView) (string, error) {
	data, err := json.Marshal(viewDTO{
		ID:         e.ID,
		DocumentID: e.DocumentID,
		UserID:     e.UserID,
		IP:         e.IP,
		UserAgent:  e.UserAgent,
		CreatedAt:  e.CreatedAt,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalView(data string) (domana.DocumentView, error) {
	var dto viewDTO
	if err := json.Unmarshal([]byte(data), &dto); err != nil {
		return domana.DocumentView{}, err
	}
	return domana.DocumentView{
		ID:         dto.ID,
		DocumentID: dto.DocumentID,
		UserID:     dto.UserID,
		IP:         dto.IP,
		UserAgent:  dto.UserAgent,
		CreatedAt:  dto.CreatedAt,
	}, nil
}
