package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
)

// TransitionEngine advances PENDING invoices to OVERDUE once their due date has
// passed.
type TransitionEngine struct {
	store  ports.InvoiceRepository
	logger *slog.Logger
}

// NewTransitionEngine creates a status transition engine.
func NewTransitionEngine(store ports.InvoiceRepository, logger *slog.Logger) *TransitionEngine {
	return &TransitionEngine{store: store, logger: logger.With(slog.String("component", "transition_engine"))}
}

// RunTransition marks every PENDING invoice with dueDate < today as OVERDUE and
// stamps overdueSince = today. A persistence failure on one invoice is recorded and
// the batch continues. Re-running with the same today is a no-op: transitioned
// invoices no longer match the PENDING predicate.
func (e *TransitionEngine) RunTransition(ctx context.Context, today time.Time) (int, []Failure) {
	candidates, err := e.store.FindOverdueCandidates(ctx, today)
	if err != nil {
		e.logger.Error("Failed to query overdue candidates", slog.String("error", err.Error()))
		return 0, []Failure{{Stage: StageQuery, Err: err}}
	}

	var failures []Failure
	transitioned := 0
	for _, inv := range candidates {
		overdueSince := today
		inv.Status = models.StatusOverdue
		inv.OverdueSince = &overdueSince

		if err := e.store.SaveInvoice(ctx, inv); err != nil {
			e.logger.Error("Failed to persist overdue transition",
				slog.String("invoice_id", inv.InvoiceID),
				slog.String("invoice_number", inv.InvoiceNumber),
				slog.String("error", err.Error()))
			failures = append(failures, Failure{InvoiceID: inv.InvoiceID, Stage: StageTransition, Err: err})
			continue
		}

		transitioned++
		e.logger.Info("Invoice transitioned to overdue",
			slog.String("invoice_id", inv.InvoiceID),
			slog.String("invoice_number", inv.InvoiceNumber),
			slog.Time("overdue_since", overdueSince))
	}

	return transitioned, failures
}
