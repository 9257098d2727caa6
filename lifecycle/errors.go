package lifecycle

import (
	"github.com/pkg/errors"
)

// Kind classifies a lifecycle failure
type Kind string

// Kind values
const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindForbidden     Kind = "forbidden"
	KindUploadFailure Kind = "upload_failure"
	KindUploadTimeout Kind = "upload_timeout"
	KindInternal      Kind = "internal"
)

// Error is returned by every CaseService operation
type Error struct {
	Kind    Kind
	Message string
	// Details lists individual validation failures
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, lifecycle.ErrNotFound) works
// regardless of message
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrForbidden     = &Error{Kind: KindForbidden}
	ErrUploadFailure = &Error{Kind: KindUploadFailure}
	ErrUploadTimeout = &Error{Kind: KindUploadTimeout}
	ErrInternal      = &Error{Kind: KindInternal}
)

// KindOf returns the kind of err. Errors that did not come from this package are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func validationError(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func notFound(id string) *Error {
	return &Error{Kind: KindNotFound, Message: "disciplinary case " + id + " not found"}
}

func forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}
