package repository

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteError is a non-2xx answer from the progression service.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("progression service returned %d", e.Status)
	}
	return fmt.Sprintf("progression service returned %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is the service rejecting the session.
func IsUnauthorized(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == http.StatusUnauthorized
}

// ServerMessage returns the message the service attached to err, if any.
func ServerMessage(err error) string {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Message
	}
	return ""
}
