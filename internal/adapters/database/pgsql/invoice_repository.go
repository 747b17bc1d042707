package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/apperrors"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewPgxInvoiceRepository creates a new repository for invoice data.
func NewPgxInvoiceRepository(pool *pgxpool.Pool) ports.InvoiceRepository {
	return &PgxInvoiceRepository{pool: pool}
}

const invoiceColumns = `
	i.invoice_id, i.invoice_number, i.issue_date, i.due_date, i.total_amount,
	i.status, i.overdue_since, i.paid_date, i.client_id,
	i.created_at, i.created_by, i.last_updated_at, i.last_updated_by`

// SaveInvoice upserts the invoice row and appends any new reminder dates. Product
// links are written once on creation; reminder dates are append-only so a concurrent
// writer can never shrink the dedup set.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice models.Invoice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx for invoice %s: %w", invoice.InvoiceID, err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO invoices (invoice_id, invoice_number, issue_date, due_date, total_amount,
			status, overdue_since, paid_date, client_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (invoice_id) DO UPDATE SET
			status = EXCLUDED.status,
			overdue_since = EXCLUDED.overdue_since,
			paid_date = EXCLUDED.paid_date,
			total_amount = EXCLUDED.total_amount,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err = tx.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.InvoiceNumber,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.TotalAmount,
		invoice.Status,
		invoice.OverdueSince,
		invoice.PaidDate,
		invoice.ClientID,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save invoice %s: %w", invoice.InvoiceID, err)
	}

	for _, p := range invoice.Products {
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_products (invoice_id, product_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING;`, invoice.InvoiceID, p.ProductID)
		if err != nil {
			return fmt.Errorf("failed to link product %s to invoice %s: %w", p.ProductID, invoice.InvoiceID, err)
		}
	}

	for _, d := range invoice.ReminderSentDates.Dates() {
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_reminders (invoice_id, reminder_date)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING;`, invoice.InvoiceID, d)
		if err != nil {
			return fmt.Errorf("failed to record reminder date for invoice %s: %w", invoice.InvoiceID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit invoice %s: %w", invoice.InvoiceID, err)
	}
	return nil
}

// FindInvoiceByID retrieves an invoice with its client, products and reminder dates.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		WHERE i.invoice_id = $1;
	`
	row := r.pool.QueryRow(ctx, query, invoiceID)
	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	if err := r.loadRelations(ctx, []*models.Invoice{invoice}); err != nil {
		return nil, err
	}
	return invoice, nil
}

// ListInvoices retrieves invoices matching the filter, with relations loaded.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter ports.InvoiceFilter) ([]models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		WHERE 1=1`
	args := []any{}

	if filter.IssueDateFrom != nil {
		args = append(args, *filter.IssueDateFrom)
		query += fmt.Sprintf(" AND i.issue_date >= $%d", len(args))
	}
	if filter.IssueDateTo != nil {
		args = append(args, *filter.IssueDateTo)
		query += fmt.Sprintf(" AND i.issue_date <= $%d", len(args))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(" AND i.client_id = $%d", len(args))
	}
	if filter.Paid != nil {
		if *filter.Paid {
			query += " AND i.status = 'PAID'"
		} else {
			query += " AND i.status <> 'PAID'"
		}
	}
	query += " ORDER BY i.issue_date, i.invoice_number;"

	return r.queryInvoices(ctx, query, args...)
}

// DeleteInvoice removes an invoice and its link rows.
func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1;`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ExistsInvoiceNumberInYear checks the per-year uniqueness of invoice numbers.
func (r *PgxInvoiceRepository) ExistsInvoiceNumberInYear(ctx context.Context, invoiceNumber string, year int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE invoice_number = $1 AND date_part('year', issue_date) = $2
		);
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, invoiceNumber, year).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check invoice number %s/%d: %w", invoiceNumber, year, err)
	}
	return exists, nil
}

// FindOverdueCandidates returns PENDING invoices with due_date strictly before the
// given day. OVERDUE and PAID invoices never match, which is what makes the status
// transition idempotent.
func (r *PgxInvoiceRepository) FindOverdueCandidates(ctx context.Context, before time.Time) ([]models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		WHERE i.status = 'PENDING' AND i.due_date < $1
		ORDER BY i.due_date;
	`
	return r.queryInvoices(ctx, query, before)
}

// FindUnpaidWithReminders returns PENDING and OVERDUE invoices with client,
// products and reminder dates loaded, ready for eligibility evaluation.
func (r *PgxInvoiceRepository) FindUnpaidWithReminders(ctx context.Context) ([]models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		WHERE i.status IN ('PENDING', 'OVERDUE')
		ORDER BY i.due_date;
	`
	return r.queryInvoices(ctx, query)
}

func (r *PgxInvoiceRepository) queryInvoices(ctx context.Context, query string, args ...any) ([]models.Invoice, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []models.Invoice
	var ptrs []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoice rows: %w", err)
	}

	for i := range invoices {
		ptrs = append(ptrs, &invoices[i])
	}
	if err := r.loadRelations(ctx, ptrs); err != nil {
		return nil, err
	}
	return invoices, nil
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	var status string
	err := row.Scan(
		&inv.InvoiceID,
		&inv.InvoiceNumber,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.TotalAmount,
		&status,
		&inv.OverdueSince,
		&inv.PaidDate,
		&inv.ClientID,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = models.InvoiceStatus(status)
	return &inv, nil
}

// loadRelations batch-loads clients, products and reminder dates for the given
// invoices.
func (r *PgxInvoiceRepository) loadRelations(ctx context.Context, invoices []*models.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	ids := make([]string, 0, len(invoices))
	byID := make(map[string]*models.Invoice, len(invoices))
	clientIDs := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.InvoiceID)
		byID[inv.InvoiceID] = inv
		clientIDs = append(clientIDs, inv.ClientID)
	}

	// Clients
	rows, err := r.pool.Query(ctx, `
		SELECT client_id, name, email, company_name, address, city, country, postcode,
			created_at, created_by, last_updated_at, last_updated_by
		FROM clients WHERE client_id = ANY($1);`, clientIDs)
	if err != nil {
		return fmt.Errorf("failed to query invoice clients: %w", err)
	}
	clients, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Client, error) {
		var c models.Client
		err := row.Scan(&c.ClientID, &c.Name, &c.Email, &c.CompanyName, &c.Address, &c.City, &c.Country, &c.Postcode,
			&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
		return c, err
	})
	if err != nil {
		return fmt.Errorf("failed to collect invoice clients: %w", err)
	}
	clientByID := make(map[string]models.Client, len(clients))
	for _, c := range clients {
		clientByID[c.ClientID] = c
	}
	for _, inv := range invoices {
		if c, ok := clientByID[inv.ClientID]; ok {
			client := c
			inv.Client = &client
		}
	}

	// Products
	rows, err = r.pool.Query(ctx, `
		SELECT ip.invoice_id, p.product_id, p.name, p.description, p.price, p.quantity,
			p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
		FROM invoice_products ip
		JOIN products p ON p.product_id = ip.product_id
		WHERE ip.invoice_id = ANY($1);`, ids)
	if err != nil {
		return fmt.Errorf("failed to query invoice products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var invoiceID string
		var p models.Product
		if err := rows.Scan(&invoiceID, &p.ProductID, &p.Name, &p.Description, &p.Price, &p.Quantity,
			&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy); err != nil {
			return fmt.Errorf("failed to scan invoice product: %w", err)
		}
		if inv, ok := byID[invoiceID]; ok {
			inv.Products = append(inv.Products, p)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate invoice products: %w", err)
	}

	// Reminder dates
	rows, err = r.pool.Query(ctx, `
		SELECT invoice_id, reminder_date
		FROM invoice_reminders
		WHERE invoice_id = ANY($1);`, ids)
	if err != nil {
		return fmt.Errorf("failed to query reminder dates: %w", err)
	}
	defer rows.Close()
	reminderDates := make(map[string][]time.Time, len(invoices))
	for rows.Next() {
		var invoiceID string
		var d time.Time
		if err := rows.Scan(&invoiceID, &d); err != nil {
			return fmt.Errorf("failed to scan reminder date: %w", err)
		}
		reminderDates[invoiceID] = append(reminderDates[invoiceID], d)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate reminder dates: %w", err)
	}
	for _, inv := range invoices {
		inv.ReminderSentDates = models.NewDateSet(reminderDates[inv.InvoiceID]...)
	}

	return nil
}
