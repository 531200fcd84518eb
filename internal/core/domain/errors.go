package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCategory indicates a category id that is not searchable.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrFetcherMissing indicates no fetch function is registered for a category.
	ErrFetcherMissing = errors.New("no fetcher registered for category")

	// ErrFetchTimeout indicates a category fetch exceeded its deadline.
	ErrFetchTimeout = errors.New("fetch timed out")

	// ErrFetchPanicked indicates a category fetch function panicked.
	ErrFetchPanicked = errors.New("fetch panicked")
)

// FetchError is a transient failure of a single category fetch.
// It is recorded on the affected category only and never taints the others.
type FetchError struct {
	// Category is the category whose fetch failed.
	Category Category

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Category, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
