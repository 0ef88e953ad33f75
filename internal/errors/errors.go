package errors

import (
	"errors"
	"fmt"
)

// Kind classifies engine errors into the three failure modes the
// handlers care about.
type Kind int

const (
	// KindValidation marks user-correctable input errors. Rejected
	// before any write happens.
	KindValidation Kind = iota + 1
	// KindPersistence marks storage failures. The operation is
	// considered not-completed and is safe to retry.
	KindPersistence
	// KindNotification marks dispatch failures. Logged, never
	// surfaced: the data-layer outcome already committed.
	KindNotification
)

// Error is the engine's error type. Err may be nil for pure
// validation failures.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation creates a user-correctable input error.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// Persistence wraps a storage failure.
func Persistence(err error) error {
	return &Error{Kind: KindPersistence, Msg: "storage operation failed", Err: err}
}

// Notification wraps a dispatch failure.
func Notification(err error) error {
	return &Error{Kind: KindNotification, Msg: "notification dispatch failed", Err: err}
}

// KindOf extracts the Kind from an error chain, or 0 if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
