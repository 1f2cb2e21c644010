package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/event-tickets/internal/domain"
	"github.com/spec-kit/event-tickets/internal/events"
	"github.com/spec-kit/event-tickets/internal/observability"
	"github.com/spec-kit/event-tickets/internal/repository"
	apperrors "github.com/spec-kit/event-tickets/pkg/util/errorutil"
)

func TestIssuanceService_CodeEncodesVerificationURL(t *testing.T) {
	h := newIssuanceHarness()
	user := &domain.User{ID: "user-1", Name: "Ada", Email: "ada@x.com"}

	issued, err := h.service.Issue(context.Background(), user, "http://localhost:5173")
	require.NoError(t, err)
	require.NotEmpty(t, issued.Ticket.ID)
	require.Equal(t, "http://localhost:5173/ticket/"+issued.Ticket.ID, issued.VerificationURL)
	require.Equal(t, issued.VerificationURL+"?showQR=true", issued.RedirectURL)

	// The generator saw exactly the verification URL of this ticket.
	require.Equal(t, issued.VerificationURL, h.codes.lastInput)
	require.Equal(t, "encoded:"+issued.VerificationURL, issued.Ticket.QRCodeData)

	stored := h.tickets.byID[issued.Ticket.ID]
	require.NotNil(t, stored)
	require.Equal(t, issued.Ticket.QRCodeData, stored.QRCodeData)
	require.Equal(t, "tech2025", stored.EventID)
}

func TestIssuanceService_CodeGenerationFailureLeavesNoTicket(t *testing.T) {
	h := newIssuanceHarness()
	h.codes.err = errors.New("render failed")
	user := &domain.User{ID: "user-1", Name: "Ada", Email: "ada@x.com"}

	_, err := h.service.Issue(context.Background(), user, "http://localhost:5173")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "CODE_GENERATION_FAILED", domainErr.Code)
	require.Empty(t, h.tickets.byID)
	require.Zero(t, h.published.count())
}

func TestIssuanceService_PersistenceFailureIsFatal(t *testing.T) {
	h := newIssuanceHarness()
	h.tickets.createErr = errors.New("write timeout")
	user := &domain.User{ID: "user-1", Name: "Ada", Email: "ada@x.com"}

	_, err := h.service.Issue(context.Background(), user, "http://localhost:5173")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "PERSISTENCE_FAILED", domainErr.Code)
	require.Zero(t, h.published.count())
}

func TestIssuanceService_FreshIdentifierPerAttempt(t *testing.T) {
	h := newIssuanceHarness()
	user := &domain.User{ID: "user-1", Name: "Ada", Email: "ada@x.com"}
	ctx := context.Background()

	first, err := h.service.Issue(ctx, user, "http://localhost:5173")
	require.NoError(t, err)
	second, err := h.service.Issue(ctx, user, "http://localhost:5173")
	require.NoError(t, err)
	require.NotEqual(t, first.Ticket.ID, second.Ticket.ID)
}

func TestIssuanceService_PublishesIssuedEventAfterPersist(t *testing.T) {
	h := newIssuanceHarness()
	user := &domain.User{ID: "user-1", Name: "Ada", Email: "ada@x.com"}

	issued, err := h.service.Issue(context.Background(), user, "http://localhost:5173")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return h.published.count() == 1 }, time.Second, 5*time.Millisecond)
	payload := h.published.last()
	require.Equal(t, issued.Ticket.ID, payload.TicketID)
	require.Equal(t, "ada@x.com", payload.Email)
	require.Equal(t, issued.VerificationURL, payload.VerificationURL)
	require.Equal(t, issued.Ticket.QRCodeData, payload.QRCodeData)
}

func TestIssuanceService_NotifierFailureNeverRevokesSuccess(t *testing.T) {
	tickets := newFakeTicketRepo()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	notifier := NewNotificationService(&fakeMailer{err: errors.New("smtp down")}, zap.NewNop(), metrics, testEvent)
	notifier.RegisterHandlers(dispatcher)

	svc := NewIssuanceService(IssuanceDependencies{
		TicketRepo: tickets,
		Codes:      &fakeCodeGenerator{},
		Dispatcher: dispatcher,
		EventID:    "tech2025",
		Logger:     zap.NewNop(),
	})

	user := &domain.User{ID: "user-1", Name: "Ada", Email: "ada@x.com"}
	issued, err := svc.Issue(context.Background(), user, "http://localhost:5173")
	require.NoError(t, err)
	require.Contains(t, tickets.byID, issued.Ticket.ID)

	require.Eventually(t, func() bool {
		return metrics.NotificationCount(observability.NotificationFailed) == 1
	}, time.Second, 5*time.Millisecond)
	require.Contains(t, tickets.byID, issued.Ticket.ID)
}

// ---- harness ----

type issuanceHarness struct {
	service   *IssuanceService
	tickets   *fakeTicketRepo
	codes     *fakeCodeGenerator
	published *payloadRecorder
}

func newIssuanceHarness() *issuanceHarness {
	tickets := newFakeTicketRepo()
	codes := &fakeCodeGenerator{}
	recorder := &payloadRecorder{}

	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventTicketIssued, func(_ context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.TicketIssuedPayload); ok {
			recorder.record(payload)
		}
		return nil
	})

	svc := NewIssuanceService(IssuanceDependencies{
		TicketRepo: tickets,
		Codes:      codes,
		Dispatcher: dispatcher,
		EventID:    "tech2025",
		Logger:     zap.NewNop(),
	})
	return &issuanceHarness{service: svc, tickets: tickets, codes: codes, published: recorder}
}

type fakeCodeGenerator struct {
	lastInput string
	err       error
}

func (g *fakeCodeGenerator) Encode(text string) (string, error) {
	g.lastInput = text
	if g.err != nil {
		return "", g.err
	}
	return "encoded:" + text, nil
}

type fakeTicketRepo struct {
	byID      map[string]*domain.Ticket
	createErr error
	lookupErr error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{byID: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if r.createErr != nil {
		return r.createErr
	}
	ticket.CreatedAt = time.Now()
	copied := *ticket
	r.byID[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByIDWithUser(_ context.Context, id string) (*domain.TicketWithUser, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	ticket, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.TicketWithUser{Ticket: *ticket}, nil
}

var _ repository.TicketRepository = (*fakeTicketRepo)(nil)

type payloadRecorder struct {
	mu       sync.Mutex
	payloads []events.TicketIssuedPayload
}

func (r *payloadRecorder) record(p events.TicketIssuedPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, p)
}

func (r *payloadRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads)
}

func (r *payloadRecorder) last() events.TicketIssuedPayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payloads[len(r.payloads)-1]
}
