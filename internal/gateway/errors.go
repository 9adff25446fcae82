package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrMalformedEnvelope is wrapped by errors for responses whose envelope or
// payload cannot be decoded.
var ErrMalformedEnvelope = errors.New("malformed response envelope")

// APIError describes any failed gateway call: network failures and timeouts
// (Status 0), non-2xx responses, and undecodable bodies.
type APIError struct {
	Status  int
	Message string
	URL     string
	Err     error

	fromServer bool
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("gateway: %s returned %d: %s", e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("gateway: %s: %s", e.URL, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// ServerMessage returns the error text reported by the gateway in the
// response body, if there was one.
func (e *APIError) ServerMessage() (string, bool) {
	if !e.fromServer || e.Message == "" {
		return "", false
	}
	return e.Message, true
}

// ServerMessage extracts the gateway-provided message from err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ServerMessage()
	}
	return "", false
}

// extractMessage pulls a human-readable message out of an error body.
// JSON bodies use "error" or "message"; HTML error pages (load balancers,
// API gateways) use the page title or first heading.
func extractMessage(body []byte, contentType string) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	switch {
	case trimmed[0] == '{':
		return jsonMessage(trimmed)
	case strings.Contains(contentType, "html") || trimmed[0] == '<':
		return htmlMessage(trimmed)
	}

	text := strings.Join(strings.Fields(string(trimmed)), " ")
	if len(text) > 200 {
		return ""
	}
	return text
}

func jsonMessage(body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Body    string          `json:"body"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Error) > 0 {
		var s string
		if err := json.Unmarshal(payload.Error, &s); err == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	if payload.Message != "" {
		return payload.Message
	}
	// Envelope-wrapped error: {"statusCode":400,"body":"{\"error\":\"...\"}"}
	if inner := strings.TrimSpace(payload.Body); strings.HasPrefix(inner, "{") {
		return jsonMessage([]byte(inner))
	}
	return ""
}

func htmlMessage(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	for _, sel := range []string{"title", "h1"} {
		text := strings.Join(strings.Fields(doc.Find(sel).First().Text()), " ")
		if text != "" {
			return text
		}
	}
	return ""
}

func statusMessage(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", code)
}
