// Package apperrors holds the error kinds raised by the PRD lifecycle core.
// The HTTP boundary maps each kind to a status code with a single switch.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindValidation Kind = "validation"
	KindGeneration Kind = "generation"
	KindUpdate     Kind = "update"
)

// Error is the single concrete error type of the core. Message is the
// human-readable text; Err, when present, is the wrapped cause whose text is
// preserved in Error().
type Error struct {
	Kind           Kind
	Message        string
	ExpectedStatus string
	Err            error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: KindConflict}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func Conflict(message string, expectedStatus string) *Error {
	return &Error{Kind: KindConflict, Message: message, ExpectedStatus: expectedStatus}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// Generation wraps an AI provider failure, keeping its message but not its type.
func Generation(message string, cause error) *Error {
	return &Error{Kind: KindGeneration, Message: message, Err: errors.New(causeText(cause))}
}

// Update wraps a store write failure with the store's own detail.
func Update(message string, cause error) *Error {
	return &Error{Kind: KindUpdate, Message: message, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func causeText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
