package domain

import "errors"

// Usage errors fail fast with no partial state change.
var (
	ErrEmptyCandidate  = errors.New("candidate text is empty")
	ErrContentNotFound = errors.New("content not found")
	ErrMissingBody     = errors.New("content body is missing")
)
