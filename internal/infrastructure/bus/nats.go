package bus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
)

// NATSBus relays notification changes between freightdesk processes that
// share a NATS subject. Local subscribers are served by the embedded
// MemoryBus; messages carrying this process's origin are dropped on receipt.
type NATSBus struct {
	local   *MemoryBus
	conn    *nats.Conn
	sub     *nats.Subscription
	subject string
	logCtx  context.Context
}

var _ ports.NotificationBus = (*NATSBus)(nil)

func NewNATSBus(ctx context.Context, url string, subject string) (*NATSBus, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, errors.New("nats subject is required")
	}

	conn, err := nats.Connect(url, nats.Name("freightdesk"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, errs.Wrapf(err, "connect nats %s", url)
	}

	b := &NATSBus{
		local:   NewMemoryBus(),
		conn:    conn,
		subject: subject,
		logCtx:  logging.WithComponent(ctx, "bus.nats"),
	}

	sub, err := conn.Subscribe(subject, b.handle)
	if err != nil {
		conn.Close()
		return nil, errs.Wrapf(err, "subscribe nats subject %s", subject)
	}
	b.sub = sub

	logging.Info(b.logCtx, "notification bus connected", slog.String("subject", subject), slog.String("origin", b.local.Origin()))
	return b, nil
}

func (b *NATSBus) Publish(ctx context.Context, change ports.NotificationChange) error {
	if change.Origin == "" {
		change.Origin = b.local.Origin()
	}
	if err := b.local.Publish(ctx, change); err != nil {
		return err
	}

	payload, err := json.Marshal(change)
	if err != nil {
		return errs.Wrap(err, "encode notification change")
	}
	if err := b.conn.Publish(b.subject, payload); err != nil {
		return errs.Wrap(err, "publish notification change")
	}
	return nil
}

func (b *NATSBus) Subscribe(handler func(ports.NotificationChange)) (func(), error) {
	return b.local.Subscribe(handler)
}

func (b *NATSBus) Close() error {
	if b.sub != nil {
		if err := b.sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			logging.Warn(b.logCtx, "unsubscribe nats failed", slog.Any("err", errs.Loggable(err)))
		}
	}
	if b.conn != nil {
		if err := b.conn.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			return errs.Wrap(err, "drain nats connection")
		}
	}
	return nil
}

func (b *NATSBus) handle(msg *nats.Msg) {
	var change ports.NotificationChange
	if err := json.Unmarshal(msg.Data, &change); err != nil {
		logging.Warn(b.logCtx, "drop malformed notification change", slog.Any("err", errs.Loggable(err)))
		return
	}
	if change.Origin == b.local.Origin() {
		return
	}
	b.local.deliver(change)
}
