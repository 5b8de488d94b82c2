package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"freightdesk/internal/ports"
)

// APIError is a non-2xx response. It unwraps to the ports sentinel for its
// status class so callers branch with errors.Is.
type APIError struct {
	Method string
	Path   string
	Detail string

	status    int
	requestID string
	kind      error
}

func newAPIError(method string, path string, status int, requestID string, body []byte) *APIError {
	return &APIError{
		Method:    method,
		Path:      path,
		Detail:    extractDetail(status, body),
		status:    status,
		requestID: requestID,
		kind:      classify(status),
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.status, http.StatusText(e.status), e.Detail)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

func (e *APIError) HTTPStatus() int {
	return e.status
}

func (e *APIError) RequestID() string {
	return e.requestID
}

func classify(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ports.ErrUnauthorized
	case status == http.StatusForbidden:
		return ports.ErrForbidden
	case status == http.StatusNotFound:
		return ports.ErrNotFound
	case status >= http.StatusInternalServerError:
		return ports.ErrServer
	default:
		return ports.ErrValidation
	}
}

// extractDetail reads the FastAPI error shape: "detail" is either a string
// or a list of {loc, msg, type} objects.
func extractDetail(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		detail := gjson.GetBytes(body, "detail")
		switch {
		case detail.Type == gjson.String && strings.TrimSpace(detail.String()) != "":
			return strings.TrimSpace(detail.String())
		case detail.IsArray():
			messages := make([]string, 0)
			for _, item := range detail.Array() {
				msg := strings.TrimSpace(item.Get("msg").String())
				if msg == "" {
					continue
				}
				if field := lastLocation(item.Get("loc")); field != "" {
					msg = field + ": " + msg
				}
				messages = append(messages, msg)
			}
			if len(messages) > 0 {
				return strings.Join(messages, "; ")
			}
		}
		if message := gjson.GetBytes(body, "message"); message.Type == gjson.String && message.String() != "" {
			return message.String()
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !gjson.ValidBytes(body) {
		return text
	}
	return http.StatusText(status)
}

func lastLocation(loc gjson.Result) string {
	if !loc.IsArray() {
		return ""
	}
	parts := loc.Array()
	if len(parts) == 0 {
		return ""
	}
	last := parts[len(parts)-1]
	if last.Type != gjson.String {
		return ""
	}
	return last.String()
}
