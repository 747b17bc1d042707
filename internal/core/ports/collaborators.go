package ports

import (
	"context"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/models"
)

// Clock supplies the current calendar date. Injectable so the scheduler can be
// tested against a fixed day.
type Clock interface {
	// Today returns the current day normalised to UTC midnight.
	Today() time.Time
}

// DocumentGenerator renders an invoice into a distributable document (PDF).
type DocumentGenerator interface {
	Render(ctx context.Context, invoice models.Invoice) ([]byte, error)
}

// NotificationSender delivers a message with an attached document to a recipient.
type NotificationSender interface {
	Deliver(ctx context.Context, to, subject, body string, attachment []byte, filename string) error
}
