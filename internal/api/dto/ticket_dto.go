package dto

import "time"

// TicketOwner is the expanded owner block on a ticket response.
type TicketOwner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TicketResponse is the expanded ticket returned by GET /api/tickets/:id.
type TicketResponse struct {
	ID        string      `json:"id"`
	EventID   string      `json:"eventId"`
	Code      string      `json:"code"`
	User      TicketOwner `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
}

// IssuedTicketPayload is the ticket block in the registration response.
type IssuedTicketPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Code  string `json:"code"`
}
