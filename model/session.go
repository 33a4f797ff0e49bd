package model

import (
	"net/http"
	"time"
)

type Session struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserIdentity `json:"user,omitempty"`
	ExpiresAt     time.Time     `json:"expires_at,omitempty"` // zero for cookie sessions
	Generation    uint64        `json:"generation"`
}

// Valid reports whether the session is authenticated and not past its expiry.
func (s Session) Valid(now time.Time) bool {
	if !s.Authenticated {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// Credential is what the engine needs to resume a session with the
// progression service: a bearer token, the session cookies, or both.
type Credential struct {
	Token     string         `json:"token,omitempty"`
	Cookies   []*http.Cookie `json:"cookies,omitempty"`
	ExpiresAt time.Time      `json:"expires_at,omitempty"`
}

func (c Credential) Empty() bool {
	return c.Token == "" && len(c.Cookies) == 0
}
