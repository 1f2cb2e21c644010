package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/event-tickets/internal/domain"
	"github.com/spec-kit/event-tickets/internal/events"
	"github.com/spec-kit/event-tickets/internal/qr"
	"github.com/spec-kit/event-tickets/internal/repository"
	apperrors "github.com/spec-kit/event-tickets/pkg/util/errorutil"
)

// IssuedTicket is the result of a successful issuance.
type IssuedTicket struct {
	Ticket          *domain.Ticket
	User            *domain.User
	VerificationURL string
	RedirectURL     string
}

// IssuanceService runs the ticket issuance workflow shared by both entry
// points. Identity resolution happens upstream; downstream the steps are
// identical: allocate id, compute URLs, generate the code, persist, notify.
type IssuanceService struct {
	tickets    repository.TicketRepository
	codes      qr.Generator
	dispatcher events.Dispatcher
	eventID    string
	logger     *zap.Logger
}

// IssuanceDependencies bundles collaborators for the workflow.
type IssuanceDependencies struct {
	TicketRepo repository.TicketRepository
	Codes      qr.Generator
	Dispatcher events.Dispatcher
	EventID    string
	Logger     *zap.Logger
}

// NewIssuanceService constructs the service.
func NewIssuanceService(deps IssuanceDependencies) *IssuanceService {
	return &IssuanceService{
		tickets:    deps.TicketRepo,
		codes:      deps.Codes,
		dispatcher: deps.Dispatcher,
		eventID:    deps.EventID,
		logger:     deps.Logger,
	}
}

// Issue creates a ticket for the user. The id is allocated up front because
// the QR payload embeds the verification URL. Code generation failure aborts
// before anything is written; persistence failure aborts with no retry — the
// caller restarts from scratch with a fresh id. The notification is
// published after the success outcome is decided and can never undo it.
func (s *IssuanceService) Issue(ctx context.Context, user *domain.User, origin string) (*IssuedTicket, error) {
	ticket := &domain.Ticket{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		EventID: s.eventID,
	}

	verificationURL := origin + "/ticket/" + ticket.ID
	redirectURL := verificationURL + "?showQR=true"

	code, err := s.codes.Encode(verificationURL)
	if err != nil {
		s.logger.Error("qr generation failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil, apperrors.NewCodeGenerationFailed(err)
	}
	ticket.QRCodeData = code

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.logger.Error("ticket persistence failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil, apperrors.NewPersistenceFailed(err)
	}

	s.logger.Info("ticket issued",
		zap.String("ticket_id", ticket.ID),
		zap.String("user_id", user.ID),
		zap.String("event_id", ticket.EventID))

	s.publishIssued(ctx, ticket, user, verificationURL)

	return &IssuedTicket{
		Ticket:          ticket,
		User:            user,
		VerificationURL: verificationURL,
		RedirectURL:     redirectURL,
	}, nil
}

func (s *IssuanceService) publishIssued(ctx context.Context, ticket *domain.Ticket, user *domain.User, verificationURL string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketIssued,
		Timestamp: time.Now(),
		Payload: events.TicketIssuedPayload{
			TicketID:        ticket.ID,
			EventID:         ticket.EventID,
			UserID:          user.ID,
			UserName:        user.Name,
			Email:           user.Email,
			QRCodeData:      ticket.QRCodeData,
			VerificationURL: verificationURL,
		},
	})
}
