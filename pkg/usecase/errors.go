package usecase

import "errors"

// Sentinel errors for the use case layer. Backend unavailability never
// appears here: the remote store falls back to the local store and the
// enrichment backend falls back to the deterministic algorithms, both
// inside the pipeline.
var (
	// Not found errors
	ErrNoteNotFound  = errors.New("note not found")
	ErrDraftNotFound = errors.New("draft not found")

	// Access control errors
	ErrAccessDenied = errors.New("access denied")

	// Auth errors
	ErrInvalidToken = errors.New("invalid authentication token")
)
