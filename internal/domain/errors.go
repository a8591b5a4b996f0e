package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrNotOwner     = errors.New("not owner")
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError rejects malformed input before any side effect. The message
// is client-facing and goes into the error envelope verbatim.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error { return ValidationError{Msg: msg} }

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
