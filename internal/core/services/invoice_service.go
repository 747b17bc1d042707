package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/apperrors"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/dto"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice CRUD, the mark-paid action, PDF retrieval,
// on-demand emailing, and the filtered CSV export.
type InvoiceService struct {
	BaseService
	invoiceRepo ports.InvoiceRepository
	clientRepo  ports.ClientRepository
	productRepo ports.ProductRepository
	audit       ports.AuditService
	generator   ports.DocumentGenerator
	sender      ports.NotificationSender
	clock       ports.Clock
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo ports.InvoiceRepository,
	clientRepo ports.ClientRepository,
	productRepo ports.ProductRepository,
	audit ports.AuditService,
	generator ports.DocumentGenerator,
	sender ports.NotificationSender,
	clock ports.Clock,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		audit:       audit,
		generator:   generator,
		sender:      sender,
		clock:       clock,
	}
}

// CreateInvoice creates a PENDING invoice for a client from a product list. The
// total amount is the sum of the product prices; the invoice number must be unique
// within its issue year.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*models.Invoice, error) {
	issueDate, err := time.Parse(dto.DateLayout, req.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid issue date %q: %w", req.IssueDate, apperrors.ErrValidation)
	}
	dueDate, err := time.Parse(dto.DateLayout, req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: %w", req.DueDate, apperrors.ErrValidation)
	}
	if issueDate.After(dueDate) {
		return nil, fmt.Errorf("issue date must not be after due date: %w", apperrors.ErrValidation)
	}

	exists, err := s.invoiceRepo.ExistsInvoiceNumberInYear(ctx, req.InvoiceNumber, issueDate.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to check invoice number uniqueness: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("invoice number %q already used in %d: %w", req.InvoiceNumber, issueDate.Year(), apperrors.ErrDuplicate)
	}

	client, err := s.clientRepo.FindClientByID(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to find client %s: %w", req.ClientID, err)
	}

	products, err := s.productRepo.FindProductsByIDs(ctx, req.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if len(products) != len(req.ProductIDs) {
		return nil, fmt.Errorf("one or more products do not exist: %w", apperrors.ErrNotFound)
	}

	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}

	now := time.Now().UTC()
	invoice := models.Invoice{
		InvoiceID:         uuid.NewString(),
		InvoiceNumber:     req.InvoiceNumber,
		IssueDate:         models.DateOnly(issueDate),
		DueDate:           models.DateOnly(dueDate),
		TotalAmount:       total,
		Status:            models.StatusPending,
		ClientID:          client.ClientID,
		Client:            client,
		Products:          products,
		ReminderSentDates: models.NewDateSet(),
		AuditFields: models.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.audit.Record(ctx, "CREATE", "Invoice", invoice.InvoiceID)
	return &invoice, nil
}

// GetInvoiceByID retrieves a single invoice with its client and products.
func (s *InvoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

// ListInvoices retrieves all invoices.
func (s *InvoiceService) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx, ports.InvoiceFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	if invoices == nil {
		return []models.Invoice{}, nil
	}
	return invoices, nil
}

// DeleteInvoice removes an invoice.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, invoiceID string) error {
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID); err != nil {
		return fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID); err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", invoiceID, err)
	}

	s.audit.Record(ctx, "DELETE", "Invoice", invoiceID)
	return nil
}

// MarkPaid moves the invoice to its terminal PAID state and stamps today as the
// paid date. Marking an already paid invoice is a no-op.
func (s *InvoiceService) MarkPaid(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.IsPaid() {
		return invoice, nil
	}

	paidDate := s.clock.Today()
	invoice.Status = models.StatusPaid
	invoice.PaidDate = &paidDate
	invoice.OverdueSince = nil
	invoice.LastUpdatedAt = time.Now().UTC()

	if err := s.invoiceRepo.SaveInvoice(ctx, *invoice); err != nil {
		return nil, fmt.Errorf("failed to mark invoice %s paid: %w", invoiceID, err)
	}

	s.audit.Record(ctx, "MARK_PAID", "Invoice", invoiceID)
	s.LogInfo(ctx, "Invoice marked paid",
		slog.String("invoice_id", invoiceID),
		slog.Time("paid_date", paidDate))
	return invoice, nil
}

// GetInvoicePDF renders the invoice document.
func (s *InvoiceService) GetInvoicePDF(ctx context.Context, invoiceID string) ([]byte, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	pdf, err := s.generator.Render(ctx, *invoice)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", invoiceID, err)
	}
	return pdf, nil
}

// EmailInvoice sends the rendered invoice to the client's email address.
func (s *InvoiceService) EmailInvoice(ctx context.Context, invoiceID string) error {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.Client == nil || invoice.Client.Email == "" {
		return fmt.Errorf("invoice %s has no client email: %w", invoiceID, apperrors.ErrValidation)
	}

	pdf, err := s.generator.Render(ctx, *invoice)
	if err != nil {
		return fmt.Errorf("failed to render invoice %s: %w", invoiceID, err)
	}

	subject := fmt.Sprintf("Invoice: %s", invoice.InvoiceNumber)
	body := fmt.Sprintf("Dear %s,\n\nPlease find attached your invoice.", invoice.Client.Name)
	filename := fmt.Sprintf("Invoice-%s.pdf", invoice.InvoiceNumber)

	if err := s.sender.Deliver(ctx, invoice.Client.Email, subject, body, pdf, filename); err != nil {
		return fmt.Errorf("failed to email invoice %s: %w", invoiceID, err)
	}

	s.audit.Record(ctx, "EMAIL_SENT", "Invoice", invoiceID)
	return nil
}

// WriteInvoicesCSV streams invoices matching the filter as CSV to w.
func (s *InvoiceService) WriteInvoicesCSV(ctx context.Context, w io.Writer, filter dto.InvoiceExportFilter) error {
	repoFilter := ports.InvoiceFilter{ClientID: filter.ClientID, Paid: filter.IsPaid}

	if filter.IssueDateFrom != "" {
		from, err := time.Parse(dto.DateLayout, filter.IssueDateFrom)
		if err != nil {
			return fmt.Errorf("invalid issueDateFrom %q: %w", filter.IssueDateFrom, apperrors.ErrValidation)
		}
		repoFilter.IssueDateFrom = &from
	}
	if filter.IssueDateTo != "" {
		to, err := time.Parse(dto.DateLayout, filter.IssueDateTo)
		if err != nil {
			return fmt.Errorf("invalid issueDateTo %q: %w", filter.IssueDateTo, apperrors.ErrValidation)
		}
		repoFilter.IssueDateTo = &to
	}
	if repoFilter.IssueDateFrom != nil && repoFilter.IssueDateTo != nil &&
		repoFilter.IssueDateFrom.After(*repoFilter.IssueDateTo) {
		return fmt.Errorf("issueDateFrom must not be after issueDateTo: %w", apperrors.ErrValidation)
	}

	invoices, err := s.invoiceRepo.ListInvoices(ctx, repoFilter)
	if err != nil {
		return fmt.Errorf("failed to list invoices for export: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Invoice Number", "Issue Date", "Due Date", "Client Name", "Total Amount", "Is Paid"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, inv := range invoices {
		clientName := ""
		if inv.Client != nil {
			clientName = inv.Client.Name
		}
		paid := "No"
		if inv.IsPaid() {
			paid = "Yes"
		}
		record := []string{
			inv.InvoiceID,
			inv.InvoiceNumber,
			inv.IssueDate.Format(dto.DateLayout),
			inv.DueDate.Format(dto.DateLayout),
			clientName,
			inv.TotalAmount.StringFixed(2),
			paid,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
