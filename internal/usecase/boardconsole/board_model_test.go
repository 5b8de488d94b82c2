package boardconsole

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"freightdesk/internal/bootstrap/config"
	"freightdesk/internal/domain/shipment"
	"freightdesk/internal/infrastructure/bus"
	"freightdesk/internal/ports"
	"freightdesk/internal/usecase/notifications"
	"freightdesk/internal/usecase/shipments"
)

type fakeShipmentGateway struct {
	ports.ShipmentGateway
	current shipment.Shipment
	updates []shipment.StatusUpdate
}

func (f *fakeShipmentGateway) GetShipment(context.Context, int64) (shipment.Shipment, error) {
	return f.current, nil
}

func (f *fakeShipmentGateway) UpdateShipmentStatus(_ context.Context, id int64, update shipment.StatusUpdate) (shipment.Shipment, error) {
	f.updates = append(f.updates, update)
	f.current.Status = update.Status
	return f.current, nil
}

func newTestModel(t *testing.T, service *shipments.Service, tracker *notifications.Tracker) *boardModel {
	t.Helper()
	model, err := NewBoardModel(context.Background(), service, tracker, BoardOptions{PageSize: 2})
	if err != nil {
		t.Fatalf("NewBoardModel() error = %v", err)
	}
	board, ok := model.(*boardModel)
	if !ok {
		t.Fatalf("type assertion failed: %T", model)
	}
	return board
}

func sampleShipments() []shipment.Shipment {
	return []shipment.Shipment{
		{ID: 1, ShipmentNumber: "SHP-1", Origin: "Mombasa", Destination: "Kampala", Status: shipment.StatusPending},
		{ID: 2, ShipmentNumber: "SHP-2", Origin: "Nairobi", Destination: "Kigali", Status: shipment.StatusInTransit},
		{ID: 3, ShipmentNumber: "SHP-3", Origin: "Mombasa", Destination: "Juba", Status: shipment.StatusDelivered},
	}
}

func keyRunes(value string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
}

func TestShipmentsLoadedDropsStaleResponse(t *testing.T) {
	model := newTestModel(t, nil, nil)
	older := model.listFence.Next()
	newer := model.listFence.Next()

	model.Update(shipmentsLoadedMsg{seq: newer, items: sampleShipments()})
	model.Update(shipmentsLoadedMsg{seq: older, items: sampleShipments()[:1]})

	if got := model.table.Total(); got != 3 {
		t.Fatalf("table total = %d, want 3 from the newer response", got)
	}
}

func TestDetailLoadedIgnoresOtherSelection(t *testing.T) {
	model := newTestModel(t, nil, nil)
	model.Update(shipmentsLoadedMsg{seq: model.listFence.Next(), items: sampleShipments()})
	model.selectedIndex = 1

	model.Update(detailLoadedMsg{
		seq:        model.detailFence.Next(),
		shipmentID: 1,
		detail:     shipments.Detail{Shipment: sampleShipments()[0]},
	})
	if model.hasDetail {
		t.Fatalf("detail for an unselected shipment should be ignored")
	}

	model.Update(detailLoadedMsg{
		seq:        model.detailFence.Next(),
		shipmentID: 2,
		detail:     shipments.Detail{Shipment: sampleShipments()[1], Progress: 40},
	})
	if !model.hasDetail || model.detail.Shipment.ID != 2 {
		t.Fatalf("detail = %+v, want shipment 2", model.detail.Shipment)
	}
}

func TestQueryEditingFiltersAndResetsPage(t *testing.T) {
	model := newTestModel(t, nil, nil)
	model.Update(shipmentsLoadedMsg{seq: model.listFence.Next(), items: sampleShipments()})
	model.Update(tea.KeyMsg{Type: tea.KeyRight})
	if model.table.CurrentPage() != 1 {
		t.Fatalf("page = %d, want 1", model.table.CurrentPage())
	}

	model.Update(keyRunes("/"))
	if !model.editingQuery {
		t.Fatalf("slash should start query editing")
	}
	model.Update(keyRunes("mom"))
	model.Update(keyRunes("x"))
	model.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if model.editingQuery {
		t.Fatalf("enter should finish query editing")
	}
	if model.table.Query() != "mom" {
		t.Fatalf("query = %q, want mom", model.table.Query())
	}
	if model.table.CurrentPage() != 0 || model.table.Total() != 2 {
		t.Fatalf("page = %d total = %d, want 0 and 2", model.table.CurrentPage(), model.table.Total())
	}
}

func TestQuitReleasesSubscription(t *testing.T) {
	memoryBus := bus.NewMemoryBus()
	tracker := notifications.NewTracker(nil, memoryBus, config.NotificationsConfig{})
	model := newTestModel(t, nil, tracker)
	if memoryBus.Subscribers() != 1 {
		t.Fatalf("subscribers = %d, want 1", memoryBus.Subscribers())
	}

	if err := memoryBus.Publish(context.Background(), ports.NotificationChange{Reason: ports.ChangeCreate}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	msg := model.waitForChangeCmd()()
	changed, ok := msg.(notificationChangedMsg)
	if !ok || changed.change.Reason != ports.ChangeCreate {
		t.Fatalf("wait message = %#v, want create change", msg)
	}

	_, cmd := model.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatalf("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("quit command should produce tea.QuitMsg")
	}
	if memoryBus.Subscribers() != 0 {
		t.Fatalf("subscribers = %d after quit, want 0", memoryBus.Subscribers())
	}
}

func TestUnreadLoadedDropsStaleCount(t *testing.T) {
	model := newTestModel(t, nil, nil)
	older := model.unreadFence.Next()
	newer := model.unreadFence.Next()

	model.Update(unreadLoadedMsg{seq: newer, count: 0})
	model.Update(unreadLoadedMsg{seq: older, count: 4})

	if model.unreadCount != 0 {
		t.Fatalf("unreadCount = %d, want 0 from the newer refresh", model.unreadCount)
	}
}

func TestCloseReleasesSubscriptionOnce(t *testing.T) {
	testCases := []struct {
		name      string
		quitFirst bool
	}{
		{name: "without quit key"},
		{name: "after quit key", quitFirst: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			memoryBus := bus.NewMemoryBus()
			tracker := notifications.NewTracker(nil, memoryBus, config.NotificationsConfig{})
			model := newTestModel(t, nil, tracker)
			if testCase.quitFirst {
				model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
			}

			model.Close()
			model.Close()

			if memoryBus.Subscribers() != 0 {
				t.Fatalf("subscribers = %d after Close(), want 0", memoryBus.Subscribers())
			}
			select {
			case <-model.done:
			default:
				t.Fatalf("Close() should stop the change listener")
			}
		})
	}
}

func TestAdvanceMovesSelectedShipment(t *testing.T) {
	gateway := &fakeShipmentGateway{current: shipment.Shipment{ID: 1, Status: shipment.StatusPending}}
	model := newTestModel(t, shipments.NewService(gateway, nil), nil)
	model.Update(shipmentsLoadedMsg{seq: model.listFence.Next(), items: sampleShipments()})

	_, cmd := model.Update(keyRunes("a"))
	if cmd == nil {
		t.Fatalf("advance should return a command")
	}
	done, ok := cmd().(actionDoneMsg)
	if !ok {
		t.Fatalf("advance command message type mismatch")
	}
	if done.err != nil || done.result != string(shipment.StatusInTransit) {
		t.Fatalf("advance result = %+v, want in_transit", done)
	}
	if len(gateway.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(gateway.updates))
	}
}

func TestAdvanceRejectsFinalShipment(t *testing.T) {
	model := newTestModel(t, nil, nil)
	model.Update(shipmentsLoadedMsg{seq: model.listFence.Next(), items: sampleShipments()[2:]})

	_, cmd := model.Update(keyRunes("a"))
	if cmd != nil {
		t.Fatalf("advance on delivered shipment should not issue a command")
	}
	if !strings.Contains(model.status, "cannot be advanced") {
		t.Fatalf("status = %q", model.status)
	}
}

func TestViewRendersDetailProgress(t *testing.T) {
	model := newTestModel(t, nil, nil)
	model.Update(shipmentsLoadedMsg{seq: model.listFence.Next(), items: sampleShipments()})
	model.selectedIndex = 1
	model.Update(detailLoadedMsg{
		seq:        model.detailFence.Next(),
		shipmentID: 2,
		detail: shipments.Detail{
			Shipment: sampleShipments()[1],
			Progress: shipment.ProgressPercent(shipment.StatusInTransit),
			Tier:     shipment.ColorTier(shipment.StatusInTransit),
		},
	})
	model.unreadCount = 3

	view := model.View()
	for _, want := range []string{"[########------------]", "40%", "3 unread", "SHP-2"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q: %s", want, view)
		}
	}
}

func TestProgressBarClamps(t *testing.T) {
	testCases := []struct {
		percent float64
		want    string
	}{
		{percent: 0, want: "[----]"},
		{percent: 50, want: "[##--]"},
		{percent: 100, want: "[####]"},
		{percent: 140, want: "[####]"},
	}

	for _, testCase := range testCases {
		if got := progressBar(testCase.percent, 4); got != testCase.want {
			t.Fatalf("progressBar(%v) = %q, want %q", testCase.percent, got, testCase.want)
		}
	}
}
