package errors

import (
	stdErrors "errors"
	"fmt"
)

// AllSourcesExhaustedError is returned when every configured API key failed.
type AllSourcesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *AllSourcesExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("all sources exhausted after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("all sources exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *AllSourcesExhaustedError) Unwrap() error {
	return e.Last
}

// NewAllSourcesExhaustedError creates the error for the given attempt count and last failure.
func NewAllSourcesExhaustedError(attempts int, last error) *AllSourcesExhaustedError {
	return &AllSourcesExhaustedError{Attempts: attempts, Last: last}
}

// IsAllSourcesExhausted reports whether err is (or wraps) an AllSourcesExhaustedError.
func IsAllSourcesExhausted(err error) bool {
	var exhausted *AllSourcesExhaustedError
	return stdErrors.As(err, &exhausted)
}
