package common

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a referenced GPU or session that does not exist.
var ErrNotFound = errors.New("record not found")

// FetchError covers network, timeout and non-2xx failures when retrieving
// a detail page or calling the chat upstream. Status is 0 when the failure
// happened before any response arrived.
type FetchError struct {
	Status int
	Msg    string
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fetch failed (status %d): %s", e.Status, e.Msg)
	}
	return "fetch failed: " + e.Msg
}

// ValidationError rejects a request with missing or malformed fields.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// RateLimitError carries the seconds until the caller's window resets.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %ds", e.RetryAfter)
}

// PersistenceError wraps a failed store write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
