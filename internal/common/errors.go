// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Classification errors.
	ErrSkipClassification = errors.New("classification skipped by headline")
	ErrLowConfidence      = errors.New("confidence below threshold")

	// LLM errors.
	ErrRateLimit  = errors.New("rate limit exceeded")
	ErrMaxRetries = errors.New("max retries exceeded")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError indicates the raw input was rejected before any
// classification work began. Caller-visible, never retried.
type ValidationError struct {
	Reason string
	Length int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input (%d chars): %s", e.Length, e.Reason)
}

// ClassificationError indicates a caller programming error such as an
// unrecognized headline override. Caller-visible, never retried.
type ClassificationError struct {
	Headline string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("unrecognized headline override: %q", e.Headline)
}

// TaxonomyError indicates a lookup of a category name that is not part of
// the fixed taxonomy. Always surfaced; signals an integration bug.
type TaxonomyError struct {
	Name string
}

func (e *TaxonomyError) Error() string {
	return fmt.Sprintf("unknown category: %q", e.Name)
}

// RoutingTimeoutError indicates every applicable route exceeded its timeout.
type RoutingTimeoutError struct {
	Attempted []string
}

func (e *RoutingTimeoutError) Error() string {
	return fmt.Sprintf("all %d applicable routes timed out: %v", len(e.Attempted), e.Attempted)
}

// RetryableError wraps an error with retry-specific metadata.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a retryable error wrapper.
func NewRetryableError(err error, retryable bool) *RetryableError {
	return &RetryableError{Err: err, Retryable: retryable}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
