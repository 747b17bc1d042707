package email

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Ezzerof/smart-invoice-backend/internal/apperrors"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/platform/config"
	"github.com/wneessen/go-mail"
)

// SMTPSender delivers notifications over SMTP with an optional PDF attachment.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender creates a sender for the configured SMTP relay.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

var _ ports.NotificationSender = (*SMTPSender)(nil)

// Deliver sends a plain-text message to a single recipient. A new connection is
// dialed per message; reminder volume is low enough that pooling is not worth it.
func (s *SMTPSender) Deliver(ctx context.Context, to, subject, body string, attachment []byte, filename string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("%w: invalid from address %q: %w", apperrors.ErrDelivery, s.cfg.From, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("%w: invalid recipient %q: %w", apperrors.ErrDelivery, to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	if len(attachment) > 0 {
		if err := msg.AttachReader(filename, bytes.NewReader(attachment)); err != nil {
			return fmt.Errorf("%w: attach %s: %w", apperrors.ErrDelivery, filename, err)
		}
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("%w: smtp client: %w", apperrors.ErrDelivery, err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: send to %s: %w", apperrors.ErrDelivery, to, err)
	}
	return nil
}
