package mail

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/spec-kit/event-tickets/internal/config"
	"github.com/spec-kit/event-tickets/internal/qr"
)

// inlineContentID is the content-id the HTML body references for the
// embedded QR image.
const inlineContentID = "ticketqr"

var imgTagPattern = regexp.MustCompile(`<img src="[^"]*"[^>]*>`)

// Mailer sends an HTML email with an optional inline image. The inline image
// arrives as a data URI and is attached as binary; returns the message id.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, inlineImage string) (string, error)
}

// SMTPMailer delivers mail over SMTP with STARTTLS.
type SMTPMailer struct {
	client *gomail.Client
	from   string
	logger *zap.Logger
}

// NewSMTPMailer builds the mail client once at startup; handlers receive it
// by reference.
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From, logger: logger}, nil
}

// Send builds and delivers the message. When inlineImage is set, the data URI
// is decoded into a cid attachment and any <img> reference in the body is
// rewritten to point at it; the raw data URI never ships in the HTML, since
// many mail clients refuse to render it.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, html, inlineImage string) (string, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return "", fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return "", fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)

	messageID := fmt.Sprintf("%s@%s", uuid.NewString(), "event-tickets")
	msg.SetMessageIDWithValue(messageID)

	if inlineImage != "" {
		payload, _, err := qr.DecodeDataURI(inlineImage)
		if err != nil {
			return "", err
		}
		if err := msg.EmbedReader(inlineContentID, bytes.NewReader(payload)); err != nil {
			return "", fmt.Errorf("embed inline image: %w", err)
		}
		html = RewriteInlineImage(html)
	}
	msg.SetBodyString(gomail.TypeTextHTML, html)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("send mail: %w", err)
	}
	return messageID, nil
}

// RewriteInlineImage replaces the first <img> tag with a cid reference to the
// embedded attachment.
func RewriteInlineImage(html string) string {
	replacement := fmt.Sprintf(`<img src="cid:%s" alt="QR Code" style="width:250px"/>`, inlineContentID)
	return imgTagPattern.ReplaceAllString(html, replacement)
}
