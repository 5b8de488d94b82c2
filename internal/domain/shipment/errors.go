package shipment

import "errors"

var (
	ErrOriginRequired        = errors.New("origin is required")
	ErrDestinationRequired   = errors.New("destination is required")
	ErrConsigneeNameRequired = errors.New("consignee_name is required")
	ErrInvalidEstimatedCost  = errors.New("estimated_cost must be a number")
	ErrInvalidStatus         = errors.New("status is not a lifecycle status")
)
