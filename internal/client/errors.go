package client

import (
	"fmt"
	"net/http"
)

// NetworkError is a transport failure: the request never produced an HTTP
// response. Local state should be left unchanged.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response carrying the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// IsValidation reports a 4xx rejection whose message should be shown as-is.
func (e *APIError) IsValidation() bool {
	return e.Status >= http.StatusBadRequest && e.Status < http.StatusInternalServerError
}

// IsUnauthorized reports an expired or missing token.
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// AllowedStatuses returns details.allowed_statuses when the server sent it.
func (e *APIError) AllowedStatuses() []string {
	raw, ok := e.Details["allowed_statuses"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
