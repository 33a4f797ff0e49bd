package model

import "time"

type NotificationKind string

const (
	KindInfo    NotificationKind = "info"
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
)

// ParseKind maps a server-provided type onto a known kind, defaulting to info.
func ParseKind(s string) NotificationKind {
	switch NotificationKind(s) {
	case KindSuccess:
		return KindSuccess
	case KindError:
		return KindError
	default:
		return KindInfo
	}
}

type Notification struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}
