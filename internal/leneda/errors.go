package leneda

import (
	"fmt"
	"strings"
)

// APIError describes a non-2xx response from the dashboard backend.
type APIError struct {
	Status   int
	Endpoint string
	Body     string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if len(msg) > 200 {
		msg = msg[:200] + "…"
	}
	if msg == "" {
		return fmt.Sprintf("leneda: %s: HTTP %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("leneda: %s: HTTP %d: %s", e.Endpoint, e.Status, msg)
}

// HTTPStatus reports the response status code so callers can
// distinguish client faults from server faults.
func (e *APIError) HTTPStatus() int { return e.Status }
