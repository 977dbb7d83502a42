package search

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidLimit is returned when the requested result count is not positive.
	ErrInvalidLimit = errors.New("result limit must be positive")

	// ErrInvalidRatio is returned when the hybrid ratio is outside [0, 1].
	ErrInvalidRatio = errors.New("hybrid ratio must be between 0 and 1")
)
