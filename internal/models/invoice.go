package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus tracks where an invoice sits in its lifecycle.
type InvoiceStatus string

const (
	StatusPending       InvoiceStatus = "PENDING"        // not yet due
	StatusPaid          InvoiceStatus = "PAID"           // payment received, terminal
	StatusOverdue       InvoiceStatus = "OVERDUE"        // past due date and unpaid
	StatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID" // reserved, not driven by the scheduler
)

// Invoice is the billing domain's central entity. Status is the single source of
// truth for the payment state; IsPaid is derived from it, never stored separately.
// OverdueSince is non-nil exactly when Status == OVERDUE.
type Invoice struct {
	InvoiceID     string          `db:"invoice_id"`
	InvoiceNumber string          `db:"invoice_number"` // unique per issue year
	IssueDate     time.Time       `db:"issue_date"`
	DueDate       time.Time       `db:"due_date"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Status        InvoiceStatus   `db:"status"`
	OverdueSince  *time.Time      `db:"overdue_since"`
	PaidDate      *time.Time      `db:"paid_date"`
	ClientID      string          `db:"client_id"`

	// Client and Products are loaded by the repository when the caller needs them
	// (reminder dispatch, PDF rendering); nil otherwise.
	Client   *Client
	Products []Product

	// ReminderSentDates dedups reminder sends: at most one per calendar day.
	ReminderSentDates DateSet

	AuditFields
}

// IsPaid reports whether the invoice has reached its terminal PAID state.
func (i *Invoice) IsPaid() bool {
	return i.Status == StatusPaid
}
