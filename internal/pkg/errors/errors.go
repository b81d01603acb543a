package errors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalid             = errors.New("invalid")
	ErrConflict            = errors.New("conflict")
	ErrTooMany             = errors.New("too many requests")
	ErrInternal            = errors.New("internal")
	ErrInvalidVerification = errors.New("invalid or expired verification code")
	ErrMailUnavailable     = errors.New("email service unavailable")
	ErrMailSendFailed      = errors.New("verification send failed")
	ErrInvalidLoginMethod  = errors.New("invalid login method")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
