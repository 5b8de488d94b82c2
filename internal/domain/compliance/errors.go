package compliance

import "errors"

var (
	ErrShipmentRequired      = errors.New("shipment_id is required")
	ErrSealNumberRequired    = errors.New("seal_number is required")
	ErrDocumentTypeRequired  = errors.New("document_type is required")
	ErrDocumentTitleRequired = errors.New("title is required")
	ErrDocumentFileRequired  = errors.New("file is required")
	ErrIssueTypeRequired     = errors.New("issue_type is required")
	ErrDescriptionRequired   = errors.New("description is required")
	ErrInvalidPriority       = errors.New("priority must be low, medium or high")
	ErrInvalidT1Status       = errors.New("t1 status is not recognised")
	ErrLatestT1NotFound      = errors.New("latest t1 form not found in compliance summary")
	ErrNoLatestT1FormNumber  = errors.New("shipment has no latest t1 form number")
)
