package api

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

// Envelope is the normalized response shape of the storefront backend:
// {status, message, data}. Status is a pointer because some endpoints omit
// the flag entirely; only an explicit false marks a logical failure.
type Envelope struct {
	Status  *bool           `json:"status,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Failed reports whether the payload carries an explicit application-level
// failure flag despite transport success.
func (e Envelope) Failed() bool {
	return e.Status != nil && !*e.Status
}

// parseEnvelope normalizes a response body once at the API boundary, so no
// internal code repeats defensive data-or-self unwrapping.
func parseEnvelope(body []byte) (Envelope, bool) {
	if len(body) == 0 {
		return Envelope{}, false
	}
	var env Envelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return Envelope{}, false
	}
	return env, true
}

// decodeData unmarshals the envelope's data section into out, falling back
// to the whole body for endpoints that reply without an envelope.
func decodeData(body []byte, out any) error {
	if out == nil {
		return nil
	}
	if env, ok := parseEnvelope(body); ok && len(env.Data) > 0 {
		return sonic.Unmarshal(env.Data, out)
	}
	return sonic.Unmarshal(body, out)
}
