package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTokenization indicates text the configured tokenization
	// scheme cannot represent. Fatal for the affected document; the
	// batch continues with the remaining documents.
	ErrTokenization = errors.New("tokenization failed")

	// ErrInvalidMention indicates a raw mention missing its label or
	// name. Fatal for that single mention; the pass continues.
	ErrInvalidMention = errors.New("invalid mention")

	// ErrInvalidConfig indicates invalid thresholds or window sizes.
	// Fatal at construction, never recoverable.
	ErrInvalidConfig = errors.New("invalid configuration")
)
