package domain

import "errors"

// Error kinds. Every error returned by a service matches exactly one of
// these through errors.Is; anything else is an internal failure.
var (
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthenticated   = errors.New("authentication error")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Error carries a human-readable message on top of one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// KindOf returns the kind err belongs to, or nil for internal errors.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrValidation,
		ErrConflict,
		ErrNotFound,
		ErrForbidden,
		ErrUnauthenticated,
		ErrInvalidTransition,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
