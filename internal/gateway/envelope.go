package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the outer transport wrapper. Body normally holds the payload
// JSON-encoded a second time, as a string.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
}

// decodeEnvelope unwraps data into v. A body holding raw JSON instead of a
// string is accepted as already flattened.
func decodeEnvelope(data []byte, v any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	inner := bytes.TrimSpace(env.Body)
	if len(inner) == 0 {
		return fmt.Errorf("%w: missing body field", ErrMalformedEnvelope)
	}
	if inner[0] == '"' {
		var s string
		if err := json.Unmarshal(inner, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
		}
		inner = []byte(s)
	}

	if err := json.Unmarshal(inner, v); err != nil {
		return fmt.Errorf("%w: decoding body: %v", ErrMalformedEnvelope, err)
	}
	return nil
}

// envelopeStatus reports the status embedded in the envelope, if any.
func envelopeStatus(data []byte) int {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return 0
	}
	return env.StatusCode
}
