package cloudinary

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrObjectNotFound indicates the destroy target does not exist
	ErrObjectNotFound = errors.New("cloudinary: object not found")

	// ErrInvalidArgument indicates that an argument is invalid
	ErrInvalidArgument = errors.New("cloudinary: invalid argument")
)

// Error represents a Cloudinary API error with request context
type Error struct {
	Op         string // Operation that failed
	StatusCode int    // HTTP status of the response (0 if the request never completed)
	Message    string // Message reported by the API
	Err        error  // Underlying error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cloudinary: %s failed (status %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("cloudinary: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error reports a missing object
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}
