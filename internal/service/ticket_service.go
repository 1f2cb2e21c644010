package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/event-tickets/internal/domain"
	"github.com/spec-kit/event-tickets/internal/repository"
	apperrors "github.com/spec-kit/event-tickets/pkg/util/errorutil"
)

// TicketService serves read-only ticket lookups.
type TicketService struct {
	tickets repository.TicketRepository
	logger  *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, logger *zap.Logger) *TicketService {
	return &TicketService{tickets: tickets, logger: logger}
}

// GetTicket fetches a ticket with its owner expanded. A missing ticket is a
// distinct not-found outcome; store faults surface a generic server error
// with the cause logged for operators only.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.TicketWithUser, error) {
	// Ids are uuids; anything else cannot exist in the store.
	if uuid.Validate(id) != nil {
		return nil, apperrors.NewNotFound("Ticket not found")
	}

	ticket, err := s.tickets.GetByIDWithUser(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info("ticket not found", zap.String("ticket_id", id))
			return nil, apperrors.NewNotFound("Ticket not found")
		}
		s.logger.Error("ticket lookup failed", zap.String("ticket_id", id), zap.Error(err))
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return ticket, nil
}
