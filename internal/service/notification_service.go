package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/event-tickets/internal/config"
	"github.com/spec-kit/event-tickets/internal/events"
	"github.com/spec-kit/event-tickets/internal/mail"
	"github.com/spec-kit/event-tickets/internal/observability"
)

// NotificationService emails issued tickets. Delivery runs off the request
// path and its failure never revokes a decided issuance; outcomes are
// surfaced through logs and the notification counters.
type NotificationService struct {
	mailer  mail.Mailer
	logger  *zap.Logger
	metrics *observability.Metrics
	event   config.EventConfig
}

// NewNotificationService creates the service.
func NewNotificationService(mailer mail.Mailer, logger *zap.Logger, metrics *observability.Metrics, event config.EventConfig) *NotificationService {
	return &NotificationService{
		mailer:  mailer,
		logger:  logger,
		metrics: metrics,
		event:   event,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketIssued, n.handleTicketIssued)
}

func (n *NotificationService) handleTicketIssued(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketIssuedPayload)
	if !ok {
		n.logger.Error("unexpected payload for ticket_issued", zap.String("event_id", event.ID))
		return nil
	}

	subject := fmt.Sprintf("Your %s Ticket", n.event.Title)
	html := n.renderTicketEmail(payload)

	messageID, err := n.mailer.Send(ctx, payload.Email, subject, html, payload.QRCodeData)
	if err != nil {
		n.metrics.RecordNotification(observability.NotificationFailed)
		n.logger.Error("ticket email failed",
			zap.String("ticket_id", payload.TicketID),
			zap.String("email", payload.Email),
			zap.Error(err))
		return nil
	}

	n.metrics.RecordNotification(observability.NotificationSent)
	n.logger.Info("ticket email sent",
		zap.String("ticket_id", payload.TicketID),
		zap.String("email", payload.Email),
		zap.String("message_id", messageID))
	return nil
}

func (n *NotificationService) renderTicketEmail(p events.TicketIssuedPayload) string {
	return fmt.Sprintf(`
        <h2>Hello %s</h2>
        <p>Your %s ticket is ready.</p>
        <p><strong>Event:</strong> %s</p>
        <p><strong>Ticket ID:</strong> %s</p>
        <p><strong>Email:</strong> %s</p>
        <img src="%s" alt="QR Code" style="width:250px"/>
        <p>Or view your ticket online: <a href="%s">%s</a></p>`,
		p.UserName, n.event.Title, n.event.Title, p.TicketID, p.Email,
		p.QRCodeData, p.VerificationURL, p.VerificationURL)
}
