package notification

import (
	"fmt"
	"strings"

	"freightdesk/internal/domain/apitime"
	"freightdesk/internal/domain/tier"
)

type Type string

const (
	TypeAlert   Type = "alert"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
)

func (t Type) Tier() tier.Tier {
	switch t {
	case TypeAlert, TypeError:
		return tier.Error
	case TypeWarning:
		return tier.Warning
	case TypeInfo:
		return tier.Info
	case TypeSuccess:
		return tier.Success
	default:
		return tier.Neutral
	}
}

type Notification struct {
	ID           int64         `json:"id" yaml:"id"`
	Title        string        `json:"title" yaml:"title"`
	Message      string        `json:"message" yaml:"message"`
	Type         Type          `json:"notification_type" yaml:"notification_type"`
	IsRead       bool          `json:"is_read" yaml:"is_read"`
	ReadAt       *apitime.Time `json:"read_at" yaml:"read_at,omitempty"`
	ResourceType *string       `json:"resource_type" yaml:"resource_type,omitempty"`
	ResourceID   *int64        `json:"resource_id" yaml:"resource_id,omitempty"`
	CreatedAt    apitime.Time  `json:"created_at" yaml:"created_at"`
}

// Link is the console route a notification opens. Shipment resources go to
// the shipment detail, reports to the report view, everything else to the
// notification feed.
func (n Notification) Link() string {
	if n.ResourceType != nil {
		switch {
		case strings.EqualFold(*n.ResourceType, "shipment") && n.ResourceID != nil:
			return fmt.Sprintf("/shipments/%d", *n.ResourceID)
		case strings.EqualFold(*n.ResourceType, "report"):
			return "/reports"
		}
	}
	return fmt.Sprintf("/notifications#%d", n.ID)
}

type StatusFilter string

const (
	FilterAll    StatusFilter = ""
	FilterUnread StatusFilter = "unread"
	FilterRead   StatusFilter = "read"
)

func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return FilterAll, nil
	case "unread":
		return FilterUnread, nil
	case "read":
		return FilterRead, nil
	default:
		return "", fmt.Errorf("unknown notification status filter %q", raw)
	}
}

type ListFilter struct {
	Status StatusFilter `url:"status,omitempty"`
	Limit  int          `url:"limit,omitempty"`
}

type CreateRequest struct {
	UserID       *int64  `json:"user_id,omitempty"`
	Title        string  `json:"title"`
	Message      string  `json:"message"`
	Type         Type    `json:"notification_type"`
	ResourceType *string `json:"resource_type,omitempty"`
	ResourceID   *int64  `json:"resource_id,omitempty"`
}

// RemoveByID returns items without the notification id, preserving order.
func RemoveByID(items []Notification, id int64) []Notification {
	out := make([]Notification, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// Upsert replaces the notification with the same id or prepends it.
func Upsert(items []Notification, n Notification) []Notification {
	for index, item := range items {
		if item.ID == n.ID {
			out := append([]Notification(nil), items...)
			out[index] = n
			return out
		}
	}
	return append([]Notification{n}, items...)
}
