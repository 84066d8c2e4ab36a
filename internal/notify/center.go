// Package notify implements the bounded FIFO notification queue of §4.7:
// user-visible status messages, auto-dismissed unless persistent (errors).
package notify

import (
	"time"

	"github.com/emu-tui/emu/internal/domain"
)

// Center holds at most domain.MaxNotifications notifications. It is owned
// and mutated only by the EventLoop (§5), same as the rest of AppState.
type Center struct {
	items  []domain.Notification
	nextID uint64
}

// New returns an empty Center.
func New() *Center { return &Center{} }

// Push adds a notification, evicting the oldest dismissible one if the
// queue is full and no room can be freed by expiry (§4.7's drop-oldest
// rule for a persistently-full queue).
func (c *Center) Push(kind domain.NotificationKind, message string, now time.Time, ttl time.Duration) domain.Notification {
	c.nextID++
	n := domain.Notification{
		ID:        c.nextID,
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
	}
	if kind != domain.NotifyError && ttl > 0 {
		n.DismissAt = now.Add(ttl)
	}

	c.Prune(now)
	if len(c.items) >= domain.MaxNotifications {
		c.evictOldestDismissible()
	}
	c.items = append(c.items, n)
	return n
}

// evictOldestDismissible drops the oldest non-persistent notification, or
// the oldest overall if every slot is persistent (errors accumulate but the
// queue must stay bounded).
func (c *Center) evictOldestDismissible() {
	for i, n := range c.items {
		if !n.Persistent() {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
	if len(c.items) > 0 {
		c.items = c.items[1:]
	}
}

// Prune removes expired non-persistent notifications.
func (c *Center) Prune(now time.Time) {
	kept := c.items[:0]
	for _, n := range c.items {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	c.items = kept
}

// Dismiss removes a notification by ID (explicit acknowledgement of a
// persistent error).
func (c *Center) Dismiss(id uint64) {
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// All returns the current notifications, oldest first.
func (c *Center) All() []domain.Notification {
	out := make([]domain.Notification, len(c.items))
	copy(out, c.items)
	return out
}
