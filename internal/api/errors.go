package api

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when an operation requiring a signed-in
// session is attempted without a token. No network call is made.
var ErrUnauthenticated = errors.New("not authenticated")

// RequestError indicates the notification service answered with a
// non-success status.
type RequestError struct {
	Status int
	Method string
	Path   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("unexpected status %d on %s %s", e.Status, e.Method, e.Path)
}

// IsStatus reports whether err is a RequestError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Status == status
}
