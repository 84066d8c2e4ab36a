package domain

import "time"

// NotificationKind classifies a user-visible message (§4.7).
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyWarning NotificationKind = "warning"
	NotifyInfo    NotificationKind = "info"
)

// Notification is a single timed message shown in the status area.
type Notification struct {
	ID        uint64
	Kind      NotificationKind
	Message   string
	CreatedAt time.Time
	DismissAt time.Time // zero value means persistent (always used for NotifyError)
}

// Persistent reports whether the notification only clears on acknowledgement.
func (n Notification) Persistent() bool {
	return n.DismissAt.IsZero()
}

// Expired reports whether now has passed DismissAt for a non-persistent notification.
func (n Notification) Expired(now time.Time) bool {
	if n.Persistent() {
		return false
	}
	return !now.Before(n.DismissAt)
}

// MaxNotifications is the bounded queue capacity from §4.7.
const MaxNotifications = 5

// DefaultNotificationTTL is the default auto-dismiss window.
const DefaultNotificationTTL = 5 * time.Second
