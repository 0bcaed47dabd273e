package websocket

import "github.com/vvitengg/admissions-backend/internal/model"

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventAdmission Event = "admission"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// AdmissionMessage wraps a live submission pushed to dashboard clients.
type AdmissionMessage struct {
	Event     Event                `json:"event"`
	Admission model.AdmissionEvent `json:"admission"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
