package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/event-tickets/internal/config"
	"github.com/spec-kit/event-tickets/internal/events"
	"github.com/spec-kit/event-tickets/internal/observability"
)

var testEvent = config.EventConfig{ID: "tech2025", Title: "Tech Event 2025"}

func issuedEvent() events.Event {
	return events.Event{
		ID:   "evt-1",
		Type: events.EventTicketIssued,
		Payload: events.TicketIssuedPayload{
			TicketID:        "ticket-1",
			EventID:         "tech2025",
			UserID:          "user-1",
			UserName:        "Ada",
			Email:           "ada@x.com",
			QRCodeData:      "data:image/png;base64,abc",
			VerificationURL: "http://localhost:5173/ticket/ticket-1",
		},
	}
}

func TestNotificationService_SendsTicketEmail(t *testing.T) {
	mailer := &fakeMailer{messageID: "msg-1"}
	metrics := observability.NewMetrics()
	svc := NewNotificationService(mailer, zap.NewNop(), metrics, testEvent)

	err := svc.handleTicketIssued(context.Background(), issuedEvent())
	require.NoError(t, err)
	require.Equal(t, "ada@x.com", mailer.to)
	require.Equal(t, "Your Tech Event 2025 Ticket", mailer.subject)
	require.Equal(t, "data:image/png;base64,abc", mailer.inlineImage)
	require.True(t, strings.Contains(mailer.html, "Hello Ada"))
	require.True(t, strings.Contains(mailer.html, "http://localhost:5173/ticket/ticket-1"))
	require.Equal(t, int64(1), metrics.NotificationCount(observability.NotificationSent))
}

func TestNotificationService_FailureIsSwallowedAndCounted(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	metrics := observability.NewMetrics()
	svc := NewNotificationService(mailer, zap.NewNop(), metrics, testEvent)

	err := svc.handleTicketIssued(context.Background(), issuedEvent())
	require.NoError(t, err)
	require.Equal(t, int64(1), metrics.NotificationCount(observability.NotificationFailed))
	require.Zero(t, metrics.NotificationCount(observability.NotificationSent))
}

type fakeMailer struct {
	to          string
	subject     string
	html        string
	inlineImage string
	messageID   string
	err         error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, html, inlineImage string) (string, error) {
	m.to = to
	m.subject = subject
	m.html = html
	m.inlineImage = inlineImage
	if m.err != nil {
		return "", m.err
	}
	return m.messageID, nil
}
