package domain

import "errors"

var (
	// ErrEmbedding signals an upstream embedding call failure or timeout.
	// Fatal to the request; never retried by the orchestrators.
	ErrEmbedding = errors.New("embedding failed")
	// ErrInvalidEmbedding signals a malformed query vector (empty or with
	// non-finite elements). Indicates a programming or injection error,
	// never silently coerced.
	ErrInvalidEmbedding = errors.New("invalid embedding vector")
	// ErrBackendSearch signals a similarity or keyword backend failure.
	ErrBackendSearch = errors.New("search backend failed")
	// ErrTelemetryPersist signals a telemetry persistence failure. Always
	// caught and logged, never returned to the search caller.
	ErrTelemetryPersist = errors.New("telemetry persist failed")
	// ErrAnalytics signals an analytics read or write failure. Always caught
	// and logged, never allowed to break the search or view-recording path.
	ErrAnalytics = errors.New("analytics operation failed")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
)
