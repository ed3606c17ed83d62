// Package fetch implements the load/display/mutate/persist cycle every
// data screen follows: a three-state status, a re-entrancy guard, and
// sequence tokens that discard stale responses.
package fetch

import (
	"errors"
	"fmt"

	"github.com/star/asteroidwatch/internal/api"
)

// Status is the synchronization state a screen renders from.
type Status int

const (
	// StatusLoading means a request is outstanding and nothing is shown
	// but a progress indicator.
	StatusLoading Status = iota

	// StatusReady means Value holds the last successfully loaded data.
	StatusReady

	// StatusFailed means the last request failed; Message explains why
	// and the user may retry.
	StatusFailed
)

// State tracks one screen's remote data. Responses are applied only when
// they carry the sequence token of the most recently started request, so
// an older in-flight response resolving late is discarded, as is any
// response arriving after the screen was deactivated.
type State[T any] struct {
	status  Status
	value   T
	message string
	seq     int
	busy    bool
}

// Begin marks the start of a new request and returns the sequence token
// the eventual result must present to Resolve or Fail.
func (s *State[T]) Begin() int {
	s.seq++
	s.busy = true
	s.status = StatusLoading
	s.message = ""
	return s.seq
}

// Busy reports whether a request is outstanding. Screens use this to
// coalesce triggers instead of starting a second request for the same
// entity.
func (s *State[T]) Busy() bool {
	return s.busy
}

// Resolve applies a successful result. It returns false, leaving the
// state untouched, when seq is not the token of the latest request.
func (s *State[T]) Resolve(seq int, value T) bool {
	if seq != s.seq {
		return false
	}
	s.busy = false
	s.status = StatusReady
	s.value = value
	s.message = ""
	return true
}

// Fail applies a failed result with a human-readable message. Stale
// failures are discarded just like stale successes.
func (s *State[T]) Fail(seq int, message string) bool {
	if seq != s.seq {
		return false
	}
	s.busy = false
	s.status = StatusFailed
	s.message = message
	return true
}

// Invalidate discards any in-flight request without changing what is
// displayed. Called on screen deactivation and whenever the request
// inputs (token, selected id) change.
func (s *State[T]) Invalidate() {
	s.seq++
	s.busy = false
}

// Status returns the current synchronization state.
func (s *State[T]) Status() Status {
	return s.status
}

// Value returns the last successfully loaded data.
func (s *State[T]) Value() T {
	return s.value
}

// Message returns the failure message, or "" outside StatusFailed.
func (s *State[T]) Message() string {
	return s.message
}

// Describe renders an error the way screens present it: the HTTP status
// when one is known, a fixed phrase for the missing-token guard, and the
// error text otherwise.
func Describe(err error) string {
	if errors.Is(err, api.ErrUnauthenticated) {
		return "User not authenticated."
	}

	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("HTTP error! status: %d", reqErr.Status)
	}

	return err.Error()
}
