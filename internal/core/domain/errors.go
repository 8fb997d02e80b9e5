package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the core can produce. Handlers map
// kinds to transport statuses; the core never builds HTTP responses.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindNotAuthorized ErrorKind = "not_authorized"
	KindNotFound      ErrorKind = "not_found"
	KindConflict      ErrorKind = "conflict"
	KindUpstream      ErrorKind = "upstream"
)

// Error is the typed error raised on every failure path.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Code, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches two domain errors by code, so wrapped causes do not break
// errors.Is against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrNotAuthorized = &Error{Kind: KindNotAuthorized, Code: "NOT_AUTHORIZED", Message: "operation not permitted"}

	ErrStudentNotFound = &Error{Kind: KindNotFound, Code: "STUDENT_NOT_FOUND", Message: "student not found"}
	ErrInvalidCourse   = &Error{Kind: KindNotFound, Code: "INVALID_COURSE", Message: "invalid course id"}

	ErrDuplicateCourse   = &Error{Kind: KindConflict, Code: "DUPLICATE_COURSE", Message: "a course with the given id already exists"}
	ErrAlreadyRegistered = &Error{Kind: KindConflict, Code: "ALREADY_REGISTERED", Message: "student is already registered for this course"}

	ErrNotAStudent = &Error{Kind: KindValidation, Code: "NOT_A_STUDENT", Message: "the provided user is not a student"}
)

// ValidationError reports malformed input rejected before any store access.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Code: "INVALID_INPUT", Message: message}
}

// UpstreamError wraps an identity-provider failure with its own detail
// attached, never reinterpreted.
func UpstreamError(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Code: "UPSTREAM_FAILURE", Message: message, Cause: cause}
}

// KindOf returns the kind of err if it is a domain error, KindUpstream
// otherwise.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}
