// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound means the referenced item does not exist in the snapshot.
	ErrNotFound = errors.New("not found")
	// ErrConflict means an If-Match checksum did not match the current snapshot.
	ErrConflict = errors.New("conflict")
	// ErrInvalidRating means a rating outside {0, 3, 4, 5} was supplied.
	ErrInvalidRating = errors.New("invalid rating")
	// ErrMalformedSnapshot means an import payload was not a JSON object.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	// ErrUnavailable means the backend store could not be reached.
	ErrUnavailable = errors.New("backend unavailable")
)
