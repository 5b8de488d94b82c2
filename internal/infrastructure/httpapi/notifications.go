package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"freightdesk/internal/domain/notification"
)

func (c *Client) ListNotifications(ctx context.Context, filter notification.ListFilter) ([]notification.Notification, error) {
	r, err := get("/api/notifications").withQuery(filter)
	if err != nil {
		return nil, err
	}
	items, _, err := fetchList[notification.Notification](ctx, c, r)
	return items, err
}

func (c *Client) UnreadNotifications(ctx context.Context, limit int) ([]notification.Notification, error) {
	r := get("/api/notifications/unread")
	if limit > 0 {
		r = r.withParam("limit", strconv.Itoa(limit))
	}
	items, _, err := fetchList[notification.Notification](ctx, c, r)
	return items, err
}

func (c *Client) CreateNotification(ctx context.Context, create notification.CreateRequest) (notification.Notification, error) {
	return fetch[notification.Notification](ctx, c, request{method: http.MethodPost, path: "/api/notifications", body: create})
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) (notification.Notification, error) {
	return fetch[notification.Notification](ctx, c, request{method: http.MethodPatch, path: idPath("/api/notifications/%d/read", id)})
}

func (c *Client) MarkNotificationUnread(ctx context.Context, id int64) (notification.Notification, error) {
	return fetch[notification.Notification](ctx, c, request{method: http.MethodPatch, path: idPath("/api/notifications/%d/unread", id)})
}

func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	_, err := c.send(ctx, request{method: http.MethodDelete, path: idPath("/api/notifications/%d", id)})
	return err
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := c.send(ctx, request{method: http.MethodPost, path: "/api/notifications/mark-all-read"})
	return err
}
