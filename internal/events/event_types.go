package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketIssued EventType = "ticket_issued"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketIssuedPayload carries everything the notifier needs, so handlers
// never read the store.
type TicketIssuedPayload struct {
	TicketID        string `json:"ticket_id"`
	EventID         string `json:"event_id"`
	UserID          string `json:"user_id"`
	UserName        string `json:"user_name"`
	Email           string `json:"email"`
	QRCodeData      string `json:"qr_code_data"`
	VerificationURL string `json:"verification_url"`
}
