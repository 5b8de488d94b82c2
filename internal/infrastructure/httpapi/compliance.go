package httpapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"freightdesk/internal/domain/compliance"
	"freightdesk/internal/errs"
)

func (c *Client) GenerateT1(ctx context.Context, t1 compliance.T1Request) (compliance.T1Form, error) {
	return fetch[compliance.T1Form](ctx, c, request{method: http.MethodPost, path: "/api/compliance/t1/generate", body: t1})
}

func (c *Client) GetT1(ctx context.Context, formID int64) (compliance.T1Form, error) {
	return fetch[compliance.T1Form](ctx, c, get(idPath("/api/compliance/t1/%d", formID)))
}

func (c *Client) MarkT1Status(ctx context.Context, formID int64, status compliance.T1Status) (compliance.T1Form, error) {
	return fetch[compliance.T1Form](ctx, c, request{
		method: http.MethodPatch,
		path:   idPath("/api/compliance/t1/%d/status", formID),
		body:   compliance.T1StatusUpdate{Status: status},
	})
}

func (c *Client) CreateSeal(ctx context.Context, seal compliance.SealRequest) (compliance.Seal, error) {
	return fetch[compliance.Seal](ctx, c, request{method: http.MethodPost, path: "/api/compliance/seals", body: seal})
}

func (c *Client) ListSeals(ctx context.Context, shipmentID int64) ([]compliance.Seal, error) {
	seals, _, err := fetchList[compliance.Seal](ctx, c, get(idPath("/api/compliance/seals/shipment/%d", shipmentID)))
	return seals, err
}

func (c *Client) ComplianceSummary(ctx context.Context, shipmentID int64) (compliance.SummaryRecord, error) {
	return fetch[compliance.SummaryRecord](ctx, c, get(idPath("/api/compliance/shipment/%d/summary", shipmentID)))
}

func (c *Client) UploadDocument(ctx context.Context, upload compliance.DocumentUpload) (compliance.Document, error) {
	body, contentType, err := encodeUpload(upload)
	if err != nil {
		return compliance.Document{}, err
	}
	return fetch[compliance.Document](ctx, c, request{
		method:      http.MethodPost,
		path:        "/api/compliance/documents/upload",
		rawBody:     body,
		contentType: contentType,
	})
}

func encodeUpload(upload compliance.DocumentUpload) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"shipment_id", strconv.FormatInt(upload.ShipmentID, 10)},
		{"document_type", upload.DocumentType},
		{"title", upload.Title},
	}
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, "", errs.Wrapf(err, "write form field %s", field[0])
		}
	}

	part, err := writer.CreateFormFile("file", upload.FileName)
	if err != nil {
		return nil, "", errs.Wrap(err, "create form file")
	}
	if _, err := io.Copy(part, upload.Content); err != nil {
		return nil, "", errs.Wrap(err, "copy document content")
	}
	if err := writer.Close(); err != nil {
		return nil, "", errs.Wrap(err, "close multipart writer")
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func (c *Client) ListDocuments(ctx context.Context, shipmentID int64) ([]compliance.Document, error) {
	documents, _, err := fetchList[compliance.Document](ctx, c, get(idPath("/api/compliance/documents/shipment/%d", shipmentID)))
	return documents, err
}

func (c *Client) Escalate(ctx context.Context, escalation compliance.Escalation) (compliance.EscalationRecord, error) {
	r, err := request{method: http.MethodPost, path: "/api/compliance/escalations"}.withQuery(escalation)
	if err != nil {
		return compliance.EscalationRecord{}, err
	}
	return fetch[compliance.EscalationRecord](ctx, c, r)
}

func (c *Client) GenerateEntry(ctx context.Context, kind compliance.EntryKind, entry compliance.EntryRequest) (compliance.EntryDocument, error) {
	return fetch[compliance.EntryDocument](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/compliance/" + string(kind) + "/generate",
		body:   entry,
	})
}
