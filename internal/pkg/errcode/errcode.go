package errcode

// ErrInternal is the fallback code for unexpected failures; clients only
// ever see a generic message for it.
const ErrInternal = 5000

const (
	ErrInvalidParams = 40000 + iota
	ErrUnauthorized
	ErrNotFound
	ErrUserNotFound
	ErrConflict
	ErrTooMany
	ErrInvalidVerification
	ErrMailUnavailable
	ErrMailSendFailed
	ErrInvalidLoginMethod
)
