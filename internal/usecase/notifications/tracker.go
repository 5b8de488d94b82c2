package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"freightdesk/internal/bootstrap/config"
	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/domain/notification"
	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
	"freightdesk/internal/usecase/viewstate"
)

// ErrNotificationAction marks a failed notification mutation. The tracked
// unread set is left as it was before the call.
var ErrNotificationAction = errors.New("notification action failed")

// Tracker holds the unread set as of the last fetch and announces every
// successful mutation on the notification bus.
type Tracker struct {
	gateway     ports.NotificationGateway
	bus         ports.NotificationBus
	unreadLimit int
	listLimit   int
	now         func() time.Time

	mu     sync.RWMutex
	unread []notification.Notification
	// fence orders refreshes against mutations. Every applied mutation
	// takes a sequence, so a refresh that started before it is dropped.
	fence viewstate.Fence
}

func NewTracker(gateway ports.NotificationGateway, bus ports.NotificationBus, cfg config.NotificationsConfig) *Tracker {
	return &Tracker{
		gateway:     gateway,
		bus:         bus,
		unreadLimit: cfg.UnreadLimit,
		listLimit:   cfg.ListLimit,
		now:         time.Now,
		unread:      []notification.Notification{},
	}
}

// RefreshUnread replaces the tracked set with the server's unread list. It
// does not broadcast; subscribers call it in response to a change. A result
// that lost the race to a later refresh or mutation is discarded and the
// current set is returned instead.
func (t *Tracker) RefreshUnread(ctx context.Context) ([]notification.Notification, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	seq := t.fence.Next()
	items, err := t.gateway.UnreadNotifications(ctx, t.unreadLimit)
	if err != nil {
		return nil, errs.Wrap(err, "refresh unread notifications")
	}

	fresh := make([]notification.Notification, 0, len(items))
	for _, item := range items {
		if !item.IsRead {
			fresh = append(fresh, item)
		}
	}

	t.mu.Lock()
	admitted := t.fence.Admit(seq)
	if admitted {
		t.unread = fresh
	}
	t.mu.Unlock()

	if !admitted {
		logging.Debug(ctx, "stale unread refresh dropped", slog.Uint64("seq", seq), slog.Uint64("latest", t.fence.Latest()))
	}
	return t.Unread(), nil
}

func (t *Tracker) Unread() []notification.Notification {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]notification.Notification, len(t.unread))
	copy(out, t.unread)
	return out
}

func (t *Tracker) UnreadCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.unread)
}

func (t *Tracker) MarkRead(ctx context.Context, id int64) (notification.Notification, error) {
	if err := checkID(ctx, "mark read", id); err != nil {
		return notification.Notification{}, err
	}

	updated, err := t.gateway.MarkNotificationRead(ctx, id)
	if err != nil {
		return notification.Notification{}, actionFailed("mark read", id, err)
	}

	count := t.apply(func(unread []notification.Notification) []notification.Notification {
		return notification.RemoveByID(unread, id)
	})
	t.announce(ctx, ports.ChangeRead, id, count)
	return updated, nil
}

func (t *Tracker) MarkUnread(ctx context.Context, id int64) (notification.Notification, error) {
	if err := checkID(ctx, "mark unread", id); err != nil {
		return notification.Notification{}, err
	}

	updated, err := t.gateway.MarkNotificationUnread(ctx, id)
	if err != nil {
		return notification.Notification{}, actionFailed("mark unread", id, err)
	}
	if updated.ID == 0 {
		updated.ID = id
	}
	updated.IsRead = false
	updated.ReadAt = nil

	count := t.apply(func(unread []notification.Notification) []notification.Notification {
		return notification.Upsert(unread, updated)
	})
	t.announce(ctx, ports.ChangeUnread, id, count)
	return updated, nil
}

func (t *Tracker) Delete(ctx context.Context, id int64) error {
	if err := checkID(ctx, "delete", id); err != nil {
		return err
	}

	if err := t.gateway.DeleteNotification(ctx, id); err != nil {
		return actionFailed("delete", id, err)
	}

	count := t.apply(func(unread []notification.Notification) []notification.Notification {
		return notification.RemoveByID(unread, id)
	})
	t.announce(ctx, ports.ChangeDelete, id, count)
	return nil
}

func (t *Tracker) MarkAllRead(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	if err := t.gateway.MarkAllNotificationsRead(ctx); err != nil {
		return fmt.Errorf("%w: mark all read: %w", ErrNotificationAction, err)
	}

	count := t.apply(func([]notification.Notification) []notification.Notification {
		return []notification.Notification{}
	})
	t.announce(ctx, ports.ChangeReadAll, 0, count)
	return nil
}

func (t *Tracker) Create(ctx context.Context, request notification.CreateRequest) (notification.Notification, error) {
	if ctx == nil {
		return notification.Notification{}, errors.New("context is required")
	}
	request.Title = strings.TrimSpace(request.Title)
	request.Message = strings.TrimSpace(request.Message)
	if request.Title == "" || request.Message == "" {
		return notification.Notification{}, fmt.Errorf("%w: create: title and message are required", ErrNotificationAction)
	}
	if request.Type == "" {
		request.Type = notification.TypeInfo
	}

	created, err := t.gateway.CreateNotification(ctx, request)
	if err != nil {
		return notification.Notification{}, fmt.Errorf("%w: create: %w", ErrNotificationAction, err)
	}

	count := t.apply(func(unread []notification.Notification) []notification.Notification {
		if created.IsRead {
			return unread
		}
		return notification.Upsert(unread, created)
	})
	t.announce(ctx, ports.ChangeCreate, created.ID, count)
	return created, nil
}

// List passes through to the gateway; it does not touch the tracked set.
func (t *Tracker) List(ctx context.Context, status notification.StatusFilter) ([]notification.Notification, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	items, err := t.gateway.ListNotifications(ctx, notification.ListFilter{Status: status, Limit: t.listLimit})
	if err != nil {
		return nil, errs.Wrap(err, "list notifications")
	}
	return items, nil
}

// Subscribe registers handler for changes made by any tracker on the bus.
// Call the returned func when the subscriber goes away.
func (t *Tracker) Subscribe(handler func(ports.NotificationChange)) (func(), error) {
	return t.bus.Subscribe(handler)
}

func (t *Tracker) apply(mutate func([]notification.Notification) []notification.Notification) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fence.Admit(t.fence.Next())
	t.unread = mutate(t.unread)
	return len(t.unread)
}

// announce runs after the server confirmed the mutation, so a bus failure
// is logged rather than reported as a failed action.
func (t *Tracker) announce(ctx context.Context, reason ports.ChangeReason, id int64, unreadCount int) {
	change := ports.NotificationChange{
		Reason:         reason,
		NotificationID: id,
		UnreadCount:    unreadCount,
		At:             t.now().UTC(),
	}
	if err := t.bus.Publish(ctx, change); err != nil {
		logging.Warn(
			logging.WithComponent(ctx, "usecase.notifications"),
			"publish notification change failed",
			slog.String("reason", string(reason)),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}

func checkID(ctx context.Context, action string, id int64) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if id <= 0 {
		return fmt.Errorf("%w: %s: invalid notification id %d", ErrNotificationAction, action, id)
	}
	return nil
}

func actionFailed(action string, id int64, err error) error {
	return fmt.Errorf("%w: %s %d: %w", ErrNotificationAction, action, id, err)
}
