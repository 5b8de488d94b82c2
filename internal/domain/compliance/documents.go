package compliance

import (
	"io"
	"strings"

	"freightdesk/internal/domain/apitime"
)

type Document struct {
	ID           int64        `json:"id" yaml:"id"`
	ShipmentID   int64        `json:"shipment_id" yaml:"shipment_id"`
	DocumentType string       `json:"document_type" yaml:"document_type"`
	Title        string       `json:"title" yaml:"title"`
	FileName     string       `json:"file_name" yaml:"file_name,omitempty"`
	FileURL      string       `json:"file_url" yaml:"file_url,omitempty"`
	CreatedAt    apitime.Time `json:"created_at" yaml:"created_at"`
}

// DocumentUpload is sent as multipart/form-data.
type DocumentUpload struct {
	ShipmentID   int64
	DocumentType string
	Title        string
	FileName     string
	Content      io.Reader
}

func (u DocumentUpload) Validate() error {
	switch {
	case u.ShipmentID <= 0:
		return ErrShipmentRequired
	case strings.TrimSpace(u.DocumentType) == "":
		return ErrDocumentTypeRequired
	case strings.TrimSpace(u.Title) == "":
		return ErrDocumentTitleRequired
	case u.Content == nil || strings.TrimSpace(u.FileName) == "":
		return ErrDocumentFileRequired
	}
	return nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Escalation is posted as query parameters.
type Escalation struct {
	ShipmentID  int64    `url:"shipment_id"`
	IssueType   string   `url:"issue_type"`
	Description string   `url:"description"`
	Priority    Priority `url:"priority"`
}

// Normalize validates the escalation and defaults the priority to medium.
func (e Escalation) Normalize() (Escalation, error) {
	e.IssueType = strings.TrimSpace(e.IssueType)
	e.Description = strings.TrimSpace(e.Description)
	e.Priority = Priority(strings.ToLower(strings.TrimSpace(string(e.Priority))))

	switch {
	case e.ShipmentID <= 0:
		return Escalation{}, ErrShipmentRequired
	case e.IssueType == "":
		return Escalation{}, ErrIssueTypeRequired
	case e.Description == "":
		return Escalation{}, ErrDescriptionRequired
	}

	switch e.Priority {
	case "":
		e.Priority = PriorityMedium
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return Escalation{}, ErrInvalidPriority
	}
	return e, nil
}

type EscalationRecord struct {
	ID          int64        `json:"id" yaml:"id"`
	ShipmentID  int64        `json:"shipment_id" yaml:"shipment_id"`
	IssueType   string       `json:"issue_type" yaml:"issue_type"`
	Description string       `json:"description" yaml:"description"`
	Priority    Priority     `json:"priority" yaml:"priority"`
	Status      string       `json:"status" yaml:"status,omitempty"`
	CreatedAt   apitime.Time `json:"created_at" yaml:"created_at"`
}

// EntryKind distinguishes the customs entry declarations.
type EntryKind string

const (
	EntryIM4 EntryKind = "im4"
	EntryIM7 EntryKind = "im7"
)

type EntryRequest struct {
	ShipmentID        int64  `json:"shipment_id"`
	DeclarationNumber string `json:"declaration_number,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

func (r EntryRequest) Validate() error {
	if r.ShipmentID <= 0 {
		return ErrShipmentRequired
	}
	return nil
}

type EntryDocument struct {
	ID             int64        `json:"id" yaml:"id"`
	ShipmentID     int64        `json:"shipment_id" yaml:"shipment_id"`
	DocumentNumber string       `json:"document_number" yaml:"document_number"`
	Status         string       `json:"status" yaml:"status,omitempty"`
	CreatedAt      apitime.Time `json:"created_at" yaml:"created_at"`
}
