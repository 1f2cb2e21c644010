package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/event-tickets/internal/domain"
	apperrors "github.com/spec-kit/event-tickets/pkg/util/errorutil"
)

func TestTicketService_GetTicketExpandsOwner(t *testing.T) {
	tickets := newFakeTicketRepo()
	id := uuid.NewString()
	tickets.byID[id] = &domain.Ticket{ID: id, UserID: "user-1", EventID: "tech2025", QRCodeData: "data:image/png;base64,abc"}
	svc := NewTicketService(tickets, zap.NewNop())

	result, err := svc.GetTicket(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, id, result.Ticket.ID)
	require.Equal(t, "tech2025", result.Ticket.EventID)
}

func TestTicketService_UnknownIDIsNotFoundNotServerError(t *testing.T) {
	svc := NewTicketService(newFakeTicketRepo(), zap.NewNop())

	_, err := svc.GetTicket(context.Background(), uuid.NewString())
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "NOT_FOUND", domainErr.Code)
	require.Equal(t, "Ticket not found", domainErr.Message)
}

func TestTicketService_MalformedIDIsNotFound(t *testing.T) {
	svc := NewTicketService(newFakeTicketRepo(), zap.NewNop())

	_, err := svc.GetTicket(context.Background(), "never-issued")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestTicketService_StoreFaultIsServerError(t *testing.T) {
	tickets := newFakeTicketRepo()
	tickets.lookupErr = errors.New("connection reset")
	svc := NewTicketService(tickets, zap.NewNop())

	_, err := svc.GetTicket(context.Background(), uuid.NewString())
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "STORE_UNAVAILABLE", domainErr.Code)
	require.Equal(t, "Server error", domainErr.Message)
}
