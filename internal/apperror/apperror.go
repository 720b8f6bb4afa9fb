package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so the transport layer can pick a status
// code without inspecting message text.
type Kind string

const (
	// KindNotFound covers entities that are absent or owned by a different
	// institution. Both cases carry the same message so cross-tenant
	// existence never leaks.
	KindNotFound Kind = "NOT_FOUND"
	// KindInvalidState covers lifecycle violations: activating an archived
	// session, mutating a record outside the active session, touching a
	// frozen class.
	KindInvalidState Kind = "INVALID_STATE"
	// KindConflict covers uniqueness violations, whether caught by a
	// friendly pre-check or reactively by a database constraint.
	KindConflict Kind = "CONFLICT"
	// KindValidation covers malformed input.
	KindValidation Kind = "VALIDATION"
)

// Error is the typed error services raise. Code is a stable machine-readable
// identifier; Message is the user-facing text.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches a low-level cause, keeping kind, code and message intact.
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

// NotFound builds a KindNotFound error.
func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// InvalidState builds a KindInvalidState error.
func InvalidState(code, message string) *Error {
	return &Error{Kind: KindInvalidState, Code: code, Message: message}
}

// Conflict builds a KindConflict error.
func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// Validation builds a KindValidation error.
func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" for untyped errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// CodeOf returns the machine-readable code of err, or "" for untyped errors.
func CodeOf(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}
