package ports

import (
	"context"

	"freightdesk/internal/domain/billing"
	"freightdesk/internal/domain/compliance"
	"freightdesk/internal/domain/inventory"
	"freightdesk/internal/domain/notification"
	"freightdesk/internal/domain/report"
	"freightdesk/internal/domain/risk"
	"freightdesk/internal/domain/shipment"
	"freightdesk/internal/domain/user"
)

type ShipmentGateway interface {
	ListShipments(ctx context.Context, filter shipment.ListFilter) (shipment.Page, error)
	GetShipment(ctx context.Context, id int64) (shipment.Shipment, error)
	CreateShipment(ctx context.Context, payload shipment.Payload) (shipment.Shipment, error)
	UpdateShipment(ctx context.Context, id int64, payload shipment.Payload) (shipment.Shipment, error)
	UpdateShipmentStatus(ctx context.Context, id int64, update shipment.StatusUpdate) (shipment.Shipment, error)
	CancelShipment(ctx context.Context, id int64, reason string) (shipment.Shipment, error)
	AssignShipment(ctx context.Context, id int64, assignment shipment.Assignment) (shipment.Shipment, error)
	ShipmentTimeline(ctx context.Context, id int64) ([]shipment.TimelineEvent, error)
	// ShipmentInsights returns nil when the backend has no insight yet.
	ShipmentInsights(ctx context.Context, id int64) (*risk.Insight, error)
	OptimizeRoute(ctx context.Context, query shipment.RouteQuery) (shipment.RoutePlan, error)
	ExportShipments(ctx context.Context, status shipment.Status) (shipment.ExportFile, error)
}

type ComplianceGateway interface {
	GenerateT1(ctx context.Context, request compliance.T1Request) (compliance.T1Form, error)
	GetT1(ctx context.Context, formID int64) (compliance.T1Form, error)
	MarkT1Status(ctx context.Context, formID int64, status compliance.T1Status) (compliance.T1Form, error)
	CreateSeal(ctx context.Context, request compliance.SealRequest) (compliance.Seal, error)
	ListSeals(ctx context.Context, shipmentID int64) ([]compliance.Seal, error)
	ComplianceSummary(ctx context.Context, shipmentID int64) (compliance.SummaryRecord, error)
	UploadDocument(ctx context.Context, upload compliance.DocumentUpload) (compliance.Document, error)
	ListDocuments(ctx context.Context, shipmentID int64) ([]compliance.Document, error)
	Escalate(ctx context.Context, escalation compliance.Escalation) (compliance.EscalationRecord, error)
	GenerateEntry(ctx context.Context, kind compliance.EntryKind, request compliance.EntryRequest) (compliance.EntryDocument, error)
}

type NotificationGateway interface {
	ListNotifications(ctx context.Context, filter notification.ListFilter) ([]notification.Notification, error)
	UnreadNotifications(ctx context.Context, limit int) ([]notification.Notification, error)
	CreateNotification(ctx context.Context, request notification.CreateRequest) (notification.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) (notification.Notification, error)
	MarkNotificationUnread(ctx context.Context, id int64) (notification.Notification, error)
	DeleteNotification(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) error
}

type UserGateway interface {
	ListUsers(ctx context.Context, filter user.ListFilter) (user.Page, error)
	GetUser(ctx context.Context, id int64) (user.User, error)
	CreateUser(ctx context.Context, request user.CreateRequest) (user.User, error)
	UpdateUser(ctx context.Context, id int64, request user.UpdateRequest) (user.User, error)
	DeactivateUser(ctx context.Context, id int64) (user.User, error)
	UsersByRole(ctx context.Context, role string) ([]user.User, error)
}

type ReportGateway interface {
	KPIs(ctx context.Context) (report.KPIs, error)
	DelayTrends(ctx context.Context, days int) (report.DelayTrends, error)
	DailyReport(ctx context.Context, date string) (report.DailyReport, error)
	ControlRoomAlerts(ctx context.Context) (report.Alerts, error)
	GenerateReport(ctx context.Context, request report.GenerateRequest) (report.GeneratedReport, error)
}

type BillingGateway interface {
	GenerateInvoice(ctx context.Context, request billing.InvoiceRequest) (billing.Invoice, error)
	ListInvoices(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error)
	CalculateCosts(ctx context.Context, shipmentID int64) (billing.CostBreakdown, error)
}

type InventoryGateway interface {
	ListInventory(ctx context.Context, filter inventory.ListFilter) ([]inventory.Item, error)
	CreateInventoryItem(ctx context.Context, request inventory.CreateRequest) (inventory.Item, error)
	RelocateInventoryItem(ctx context.Context, id int64, locationID int64) (inventory.Item, error)
}

type AuthToken struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        *user.User `json:"user"`
}

type AuthGateway interface {
	Login(ctx context.Context, email string, password string) (AuthToken, error)
	CurrentUser(ctx context.Context) (user.User, error)
	Logout(ctx context.Context) error
}
