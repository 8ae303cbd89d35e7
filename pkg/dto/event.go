package dto

import "github.com/google/uuid"

// PhaseEvent is the wire form of the core's emitted events, published on
// the NATS event stream and fanned out to WebSocket subscribers by the
// event hub.
type PhaseEvent struct {
	SessionID uuid.UUID   `json:"session_id"`
	Kind      string      `json:"kind"` // phaseEntered, progress, phaseSucceeded, phaseFailed
	Phase     string      `json:"phase"`
	Payload   interface{} `json:"payload,omitempty"`
	ErrorKind string      `json:"error_kind,omitempty"`
	Message   string      `json:"message,omitempty"`
	Pct       int         `json:"pct,omitempty"`
}
