package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/apperrors"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/dto"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
)

// Dispatcher sends due reminders: it renders the invoice document, delivers it to
// the client, and records the send in the invoice's dedup set.
type Dispatcher struct {
	store     ports.InvoiceRepository
	generator ports.DocumentGenerator
	sender    ports.NotificationSender
	logger    *slog.Logger
}

// NewDispatcher creates a reminder dispatcher.
func NewDispatcher(store ports.InvoiceRepository, generator ports.DocumentGenerator, sender ports.NotificationSender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:     store,
		generator: generator,
		sender:    sender,
		logger:    logger.With(slog.String("component", "reminder_dispatcher")),
	}
}

// RunDispatch processes every invoice eligible for a reminder today. Invoices are
// processed independently: a failure at any step leaves that invoice's dedup set
// unmodified (so the milestone can retry on a later tick while its window is still
// open) and never prevents the remaining invoices from being processed.
func (d *Dispatcher) RunDispatch(ctx context.Context, today time.Time) (int, []Failure) {
	invoices, err := d.store.FindUnpaidWithReminders(ctx)
	if err != nil {
		d.logger.Error("Failed to query unpaid invoices", slog.String("error", err.Error()))
		return 0, []Failure{{Stage: StageQuery, Err: fmt.Errorf("%w: %w", apperrors.ErrStore, err)}}
	}

	var failures []Failure
	reminded := 0
	for _, inv := range invoices {
		if !Eligible(inv, today) {
			continue
		}
		if fail := d.dispatchOne(ctx, inv, today); fail != nil {
			failures = append(failures, *fail)
			continue
		}
		reminded++
	}

	return reminded, failures
}

func (d *Dispatcher) dispatchOne(ctx context.Context, inv models.Invoice, today time.Time) *Failure {
	logger := d.logger.With(
		slog.String("invoice_id", inv.InvoiceID),
		slog.String("invoice_number", inv.InvoiceNumber),
		slog.String("status", string(inv.Status)))

	if inv.Client == nil || inv.Client.Email == "" {
		err := fmt.Errorf("invoice has no client email")
		logger.Error("Skipping reminder for malformed invoice", slog.String("error", err.Error()))
		return &Failure{InvoiceID: inv.InvoiceID, Stage: StageDelivery, Err: err}
	}

	pdf, err := d.generator.Render(ctx, inv)
	if err != nil {
		logger.Error("Failed to render reminder document", slog.String("error", err.Error()))
		return &Failure{InvoiceID: inv.InvoiceID, Stage: StageGeneration, Err: fmt.Errorf("%w: %w", apperrors.ErrGeneration, err)}
	}

	subject := reminderSubject(inv)
	body := reminderBody(inv, today)
	filename := fmt.Sprintf("Invoice-%s.pdf", inv.InvoiceNumber)

	if err := d.sender.Deliver(ctx, inv.Client.Email, subject, body, pdf, filename); err != nil {
		logger.Error("Failed to deliver reminder", slog.String("error", err.Error()))
		return &Failure{InvoiceID: inv.InvoiceID, Stage: StageDelivery, Err: fmt.Errorf("%w: %w", apperrors.ErrDelivery, err)}
	}

	// Only a delivered reminder counts against the per-day dedup.
	inv.ReminderSentDates = inv.ReminderSentDates.WithDate(today)
	if err := d.store.SaveInvoice(ctx, inv); err != nil {
		logger.Error("Reminder delivered but recording failed; a duplicate may be sent on the next tick",
			slog.String("error", err.Error()))
		return &Failure{InvoiceID: inv.InvoiceID, Stage: StageRecord, Err: fmt.Errorf("%w: %w", apperrors.ErrStore, err)}
	}

	logger.Info("Reminder sent", slog.String("to", inv.Client.Email))
	return nil
}

// reminderSubject frames the message by lifecycle state: overdue invoices get the
// urgent wording.
func reminderSubject(inv models.Invoice) string {
	if inv.Status == models.StatusOverdue {
		return fmt.Sprintf("Payment Overdue: Invoice %s", inv.InvoiceNumber)
	}
	return fmt.Sprintf("Payment Reminder: Invoice %s", inv.InvoiceNumber)
}

func reminderBody(inv models.Invoice, today time.Time) string {
	name := ""
	if inv.Client != nil {
		name = inv.Client.Name
	}
	if inv.Status == models.StatusOverdue {
		daysOverdue := models.DaysBetween(inv.DueDate, today)
		return fmt.Sprintf("Dear %s,\n\n"+
			"Invoice #%s is now %d day(s) overdue. Payment was due on %s. "+
			"Please settle the attached invoice as soon as possible.\n\n"+
			"Best regards,\nSmartInvoice Team",
			name, inv.InvoiceNumber, daysOverdue, inv.DueDate.Format(dto.DateLayout))
	}
	return fmt.Sprintf("Dear %s,\n\n"+
		"This is a reminder for your invoice #%s due on %s. "+
		"Please find the invoice attached.\n\n"+
		"Best regards,\nSmartInvoice Team",
		name, inv.InvoiceNumber, inv.DueDate.Format(dto.DateLayout))
}
