package ports

import (
	"context"
	"time"
)

type ChangeReason string

const (
	ChangeRead    ChangeReason = "read"
	ChangeUnread  ChangeReason = "unread"
	ChangeDelete  ChangeReason = "delete"
	ChangeReadAll ChangeReason = "read_all"
	ChangeCreate  ChangeReason = "create"
)

// NotificationChange is the "notifications changed" signal. Receivers pull
// fresh state themselves; the payload is informational.
type NotificationChange struct {
	Reason         ChangeReason `json:"reason"`
	NotificationID int64        `json:"notification_id,omitempty"`
	UnreadCount    int          `json:"unread_count"`
	Origin         string       `json:"origin"`
	At             time.Time    `json:"at"`
}

type NotificationBus interface {
	Publish(ctx context.Context, change NotificationChange) error
	// Subscribe registers handler until the returned func is called.
	Subscribe(handler func(NotificationChange)) (unsubscribe func(), err error)
}
