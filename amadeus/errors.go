package amadeus

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// AuthenticationError reports a failed client-credentials exchange.
// It is terminal for the calling client; there is no retry.
type AuthenticationError struct {
	Status int
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("amadeus authentication failed (status %d): %s", e.Status, e.Reason)
}

// SearchError reports an upstream 4xx/5xx search failure. Detail carries
// the first entry of the upstream error envelope when present, else the
// raw response body.
type SearchError struct {
	Status int
	Detail string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("amadeus search failed (status %d): %s", e.Status, e.Detail)
}

// errorEnvelope mirrors the upstream error response shape
type errorEnvelope struct {
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

// newSearchError extracts the error detail from a non-2xx response body
func newSearchError(resp *http.Response) *SearchError {
	body, _ := io.ReadAll(resp.Body)

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 && envelope.Errors[0].Detail != "" {
		return &SearchError{Status: resp.StatusCode, Detail: envelope.Errors[0].Detail}
	}

	detail := strings.TrimSpace(string(body))
	if detail == "" {
		detail = resp.Status
	}
	return &SearchError{Status: resp.StatusCode, Detail: detail}
}
