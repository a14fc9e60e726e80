// Package apperr defines the error taxonomy shared by the scoring pipeline,
// the achievement engine and the HTTP boundary.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the caller.
type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindAIUnavailable   Kind = "AI_UNAVAILABLE"
	KindAIMisconfigured Kind = "AI_MISCONFIGURED"
	KindInternal        Kind = "INTERNAL"
)

// Sentinels usable with errors.Is.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized}
	ErrAIUnavailable   = &Error{Kind: KindAIUnavailable}
	ErrAIMisconfigured = &Error{Kind: KindAIMisconfigured}
	ErrInternal        = &Error{Kind: KindInternal}
)

// Error carries a kind, a message safe to show to callers and the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind so that errors.Is(err, apperr.ErrAIUnavailable) works
// for any error of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// New returns an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns an error of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func Validation(message string) *Error { return New(KindValidation, message) }

func Unauthorized(message string, cause error) *Error {
	return Wrap(KindUnauthorized, message, cause)
}

func AIUnavailable(cause error) *Error {
	return Wrap(KindAIUnavailable, "AI analysis is temporarily unavailable", cause)
}

func AIMisconfigured(cause error) *Error {
	return Wrap(KindAIMisconfigured, "AI analysis is not configured", cause)
}

func Internal(cause error) *Error {
	return Wrap(KindInternal, "internal error", cause)
}

// KindOf reports the kind of err, defaulting to KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e != nil && e.Kind != "" {
		return e.Kind
	}
	return KindInternal
}

// Status maps a kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindAIUnavailable, KindAIMisconfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message that may be shown to a caller. Causes and
// internal errors are never exposed.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e != nil && e.Kind != KindInternal {
		if e.Message != "" {
			return e.Message
		}
		return string(e.Kind)
	}
	return "internal error"
}
