package domain

import "errors"

// ErrNotFound is returned by repo functions when the requested row does not
// exist. Services turn it into a NotFoundError naming the entity.
var ErrNotFound = errors.New("not found")

// ErrValidation is matched by boundary validation failures (malformed path,
// query, or body input) so callers can tell them apart from domain rules.
var ErrValidation = errors.New("validation error")

// ClientError is a named domain-rule violation caused by the caller.
// Its Message is safe to return verbatim in a response body.
type ClientError struct {
	Message string
	err     error
}

// NewClientError returns a ClientError carrying msg, e.g. "Invalid activity date.".
func NewClientError(msg string) error {
	return &ClientError{Message: msg}
}

// NotFoundError returns the ClientError for a missing entity, e.g. "Trip not found.".
// The result also matches errors.Is(err, ErrNotFound).
func NotFoundError(entity string) error {
	return &ClientError{Message: entity + " not found.", err: ErrNotFound}
}

func (e *ClientError) Error() string { return e.Message }

func (e *ClientError) Unwrap() error { return e.err }

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
