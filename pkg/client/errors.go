package client

import (
	"errors"
	"fmt"
)

// HTTPError is returned when the API answers with a 4xx or 5xx status.
// Message carries the server's own wording when it could be extracted.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err wraps an HTTPError with the given status.
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == status
}
