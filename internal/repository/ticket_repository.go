package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-tickets/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Tickets arrive with the
// ID already assigned because the QR payload embeds it.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByIDWithUser(ctx context.Context, id string) (*domain.TicketWithUser, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, user_id, event_id, qr_code_data)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.UserID,
		ticket.EventID,
		ticket.QRCodeData,
	).Scan(&ticket.CreatedAt)
}

func (r *ticketRepository) GetByIDWithUser(ctx context.Context, id string) (*domain.TicketWithUser, error) {
	const query = `
        SELECT t.id, t.user_id, t.event_id, t.qr_code_data, t.created_at,
               u.id, u.name, u.email, u.google_id, u.created_at
        FROM tickets t
        JOIN users u ON u.id = t.user_id
        WHERE t.id=$1`

	var result domain.TicketWithUser
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&result.Ticket.ID,
		&result.Ticket.UserID,
		&result.Ticket.EventID,
		&result.Ticket.QRCodeData,
		&result.Ticket.CreatedAt,
		&result.User.ID,
		&result.User.Name,
		&result.User.Email,
		&result.User.GoogleID,
		&result.User.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &result, nil
}
