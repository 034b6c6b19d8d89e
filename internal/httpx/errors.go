package httpx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is the terminal failure of a request: retries were exhausted,
// or a non-retried mutating call got a non-2xx response. Message carries
// the best human-readable text the server offered.
type APIError struct {
	Platform   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s api error (status %d): %s", e.Platform, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s api error: %s", e.Platform, e.Message)
}

// extractErrorMessage digs a human-readable message out of a JSON error
// body. The platforms disagree on shape: Amplifier and Printful nest it
// under error.message, Shopify uses a top-level errors string or object.
// Anything unparseable falls back to the raw body text.
func extractErrorMessage(body []byte) string {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return "empty error response"
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return raw
	}
	if envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	if len(envelope.Errors) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Errors, &s); err == nil && s != "" {
			return s
		}
		return string(envelope.Errors)
	}
	return raw
}
