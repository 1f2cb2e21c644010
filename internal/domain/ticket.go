package domain

import "time"

// Ticket binds a user to an event and carries the encoded verification
// payload. The ID is allocated before persistence because the verification
// URL embeds it; QRCodeData must encode that URL. Tickets are immutable once
// written.
type Ticket struct {
	ID         string
	UserID     string
	EventID    string
	QRCodeData string
	CreatedAt  time.Time
}

// TicketWithUser is a ticket expanded with its owner's fields, as returned by
// the lookup endpoint.
type TicketWithUser struct {
	Ticket
	User User
}
