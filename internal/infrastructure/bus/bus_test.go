package bus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nats-io/nats.go"

	"freightdesk/internal/ports"
)

func TestMemoryBusDeliversUntilUnsubscribed(t *testing.T) {
	b := NewMemoryBus()
	ctx := context.Background()

	var got []ports.NotificationChange
	unsubscribe, err := b.Subscribe(func(change ports.NotificationChange) {
		got = append(got, change)
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := b.Publish(ctx, ports.NotificationChange{Reason: ports.ChangeRead, NotificationID: 4, UnreadCount: 2}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(got) != 1 || got[0].Origin != b.Origin() || got[0].At.IsZero() {
		t.Fatalf("delivered = %+v", got)
	}

	unsubscribe()
	unsubscribe()
	if b.Subscribers() != 0 {
		t.Fatalf("Subscribers() = %d, want 0", b.Subscribers())
	}

	if err := b.Publish(ctx, ports.NotificationChange{Reason: ports.ChangeReadAll}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("delivered after unsubscribe = %d, want 1", len(got))
	}
}

func TestMemoryBusRejectsNilHandler(t *testing.T) {
	if _, err := NewMemoryBus().Subscribe(nil); err == nil {
		t.Fatalf("Subscribe(nil) expected error")
	}
}

func TestNATSBusHandleSkipsOwnEcho(t *testing.T) {
	b := &NATSBus{local: NewMemoryBus(), logCtx: context.Background()}

	var got []ports.NotificationChange
	if _, err := b.Subscribe(func(change ports.NotificationChange) { got = append(got, change) }); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	testCases := []struct {
		name  string
		data  []byte
		wantN int
	}{
		{name: "own origin", data: mustJSON(t, ports.NotificationChange{Reason: ports.ChangeRead, Origin: b.local.Origin()}), wantN: 0},
		{name: "malformed", data: []byte("{"), wantN: 0},
		{name: "peer origin", data: mustJSON(t, ports.NotificationChange{Reason: ports.ChangeDelete, Origin: "peer"}), wantN: 1},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got = nil
			b.handle(&nats.Msg{Data: testCase.data})
			if len(got) != testCase.wantN {
				t.Fatalf("delivered = %d, want %d", len(got), testCase.wantN)
			}
		})
	}
}

func mustJSON(t *testing.T, change ports.NotificationChange) []byte {
	t.Helper()

	data, err := json.Marshal(change)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}
