package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError carries the backend's error body so callers can show the
// backend's own message instead of a generic one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("request failed with status %d", resp.StatusCode),
		}
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}

// Message extracts the backend message from err, falling back when the
// failure happened before a response arrived (timeouts, refused conns).
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fallback
}
