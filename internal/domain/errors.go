package domain

import "errors"

var (
	// ErrProviderUnavailable indicates the embedding provider failed or is not configured.
	// The resolver recovers from it by using the deterministic embedder.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrDimensionMismatch indicates vectors of different lengths met in one store.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrPersistence indicates the index location could not be read or written.
	ErrPersistence = errors.New("index persistence failed")

	// ErrMalformedIndex indicates a persisted index that is not a valid record list.
	ErrMalformedIndex = errors.New("malformed index")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownAgent indicates no agent is registered under the requested name.
	ErrUnknownAgent = errors.New("unknown agent")
)
