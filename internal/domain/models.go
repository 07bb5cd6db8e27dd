// Package domain contains the core domain types for the translation functions.
package domain

import "encoding/json"

// Event is the payload AppSync hands to a direct Lambda resolver.
// Only Arguments is consumed; identity, source and info are ignored.
type Event struct {
	Arguments map[string]any `json:"arguments"`
}

// StringArgument returns the named argument when it is a non-empty string.
func (e Event) StringArgument(field string) (string, bool) {
	value, ok := e.Arguments[field].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Envelope is the response returned to the caller.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Role tags a prompt message.
type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
)

// Message is one (role, text) pair of a prompt.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// JSONEnvelope builds an envelope whose body is the JSON encoding of payload.
func JSONEnvelope(statusCode int, payload any) Envelope {
	body, err := json.Marshal(payload)
	if err != nil {
		// Only reachable for unencodable payloads; keep the body parseable.
		return Envelope{StatusCode: 500, Body: `{"error":"failed to encode response"}`}
	}
	return Envelope{StatusCode: statusCode, Body: string(body)}
}
