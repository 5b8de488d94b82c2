package ports

import "errors"

// Failure categories every gateway adapter maps its errors onto.
var (
	ErrTransport         = errors.New("gateway transport failure")
	ErrValidation        = errors.New("request rejected by server validation")
	ErrUnauthorized      = errors.New("session rejected by server")
	ErrForbidden         = errors.New("operation not permitted for this account")
	ErrNotFound          = errors.New("resource not found")
	ErrServer            = errors.New("server error")
	ErrMalformedResponse = errors.New("malformed response payload")
	ErrNotAuthenticated  = errors.New("not logged in")
)
