package storefront

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials means the access token was rejected.
	ErrInvalidCredentials = errors.New("storefront: invalid credentials")

	// ErrNotFound means the remote resource does not exist.
	ErrNotFound = errors.New("storefront: resource not found")
)

// APIError is a non-2xx response that is not retried.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: api error: status=%d body=%s", e.StatusCode, e.Body)
}
