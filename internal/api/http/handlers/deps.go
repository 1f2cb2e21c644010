package handlers

import (
	"context"

	"github.com/spec-kit/event-tickets/internal/domain"
	"github.com/spec-kit/event-tickets/internal/service"
)

// IdentityResolver resolves or registers attendee identities.
type IdentityResolver interface {
	ResolveOrCreate(ctx context.Context, name, email, googleID string) (*domain.User, bool, error)
	RegisterManual(ctx context.Context, name, email string) (*domain.User, error)
}

// TicketIssuer runs the issuance workflow for a resolved identity.
type TicketIssuer interface {
	Issue(ctx context.Context, user *domain.User, origin string) (*service.IssuedTicket, error)
}

// TicketFinder serves ticket lookups with the owner expanded.
type TicketFinder interface {
	GetTicket(ctx context.Context, id string) (*domain.TicketWithUser, error)
}
