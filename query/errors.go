package query

import "errors"

var (
	// ErrPoolRequired is returned when a connection pool is not provided.
	ErrPoolRequired = errors.New("connection pool required")

	// ErrClientSourceRequired is returned when a client source is not provided.
	ErrClientSourceRequired = errors.New("client source required")

	// ErrEngineRequired is returned when a retrieval engine is not provided.
	ErrEngineRequired = errors.New("retrieval engine required")
)
