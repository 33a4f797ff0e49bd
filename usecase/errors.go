package usecase

import (
	"errors"

	"levelup/repository"
)

var (
	// ErrNotAuthenticated is returned by every synchronization call made
	// without a session; no request is sent.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrStaleSession means the session ended or changed while the call
	// was in flight; its result was discarded.
	ErrStaleSession = errors.New("session changed while request was in flight")
)

// ValidationError is a local precondition failure. No request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// UserMessage prefers the message the progression service sent.
func UserMessage(err error, fallback string) string {
	if msg := repository.ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}
