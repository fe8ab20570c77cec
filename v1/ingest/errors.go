package ingest

import "errors"

var (
	// ErrInvalidInput marks a request the caller must fix: empty namespace
	// or query, a malformed link.
	ErrInvalidInput = errors.New("ingest: invalid input")

	// ErrNoChunks is returned when a document yields no text to index.
	ErrNoChunks = errors.New("ingest: document produced no chunks")

	// ErrFetchFailed covers an unreachable link or a non-2xx answer.
	ErrFetchFailed = errors.New("ingest: document fetch failed")

	// ErrDocumentTooLarge is returned when the body exceeds MaxDocumentBytes.
	ErrDocumentTooLarge = errors.New("ingest: document too large")
)
