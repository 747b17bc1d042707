package dto

import (
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates (no time-of-day component).
const DateLayout = "2006-01-02"

// CreateInvoiceRequest defines the data needed to create a new invoice. The total
// amount is computed server-side from the referenced products.
type CreateInvoiceRequest struct {
	ClientID      string   `json:"clientId" binding:"required"`
	InvoiceNumber string   `json:"invoiceNumber" binding:"required"`
	IssueDate     string   `json:"issueDate" binding:"required,dateonly"`
	DueDate       string   `json:"dueDate" binding:"required,dateonly"`
	ProductIDs    []string `json:"productIds" binding:"required,min=1"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	ID                string          `json:"id"`
	ClientName        string          `json:"clientName"`
	Email             string          `json:"email"`
	InvoiceNumber     string          `json:"invoiceNumber"`
	IssueDate         string          `json:"issueDate"`
	DueDate           string          `json:"dueDate"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	ClientID          string          `json:"clientId"`
	ProductIDs        []string        `json:"productIds"`
	IsPaid            bool            `json:"isPaid"`
	Status            string          `json:"status"`
	OverdueSince      *string         `json:"overdueSince,omitempty"`
	PaidDate          *string         `json:"paidDate,omitempty"`
	ReminderSentDates []string        `json:"reminderSentDates"`
}

// InvoiceExportFilter narrows the invoice CSV export. Dates use DateLayout.
type InvoiceExportFilter struct {
	IssueDateFrom string `form:"issueDateFrom" binding:"omitempty,dateonly"`
	IssueDateTo   string `form:"issueDateTo" binding:"omitempty,dateonly"`
	ClientID      string `form:"clientId"`
	IsPaid        *bool  `form:"isPaid"`
}

// ToInvoiceResponse converts a models.Invoice to its response DTO. Client must be
// loaded on the invoice.
func ToInvoiceResponse(inv *models.Invoice) InvoiceResponse {
	res := InvoiceResponse{
		ID:            inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate.Format(DateLayout),
		DueDate:       inv.DueDate.Format(DateLayout),
		TotalAmount:   inv.TotalAmount,
		ClientID:      inv.ClientID,
		IsPaid:        inv.IsPaid(),
		Status:        string(inv.Status),
	}
	if inv.Client != nil {
		res.ClientName = inv.Client.Name
		res.Email = inv.Client.Email
	}
	res.ProductIDs = make([]string, len(inv.Products))
	for i, p := range inv.Products {
		res.ProductIDs[i] = p.ProductID
	}
	if inv.OverdueSince != nil {
		s := inv.OverdueSince.Format(DateLayout)
		res.OverdueSince = &s
	}
	if inv.PaidDate != nil {
		s := inv.PaidDate.Format(DateLayout)
		res.PaidDate = &s
	}
	res.ReminderSentDates = formatDates(inv.ReminderSentDates.Dates())
	return res
}

// ToListInvoiceResponse converts a slice of invoices to response DTOs.
func ToListInvoiceResponse(invoices []models.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		res[i] = ToInvoiceResponse(&invoices[i])
	}
	return res
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(DateLayout)
	}
	return out
}
