package ports

import (
	"context"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/models"
)

// ClientRepository defines persistence operations for Clients.
type ClientRepository interface {
	SaveClient(ctx context.Context, client models.Client) error
	UpdateClient(ctx context.Context, client models.Client) error
	FindClientByID(ctx context.Context, clientID string) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	DeleteClient(ctx context.Context, clientID string) error
	CountInvoicesForClient(ctx context.Context, clientID string) (int, error)
}

// ProductRepository defines persistence operations for Products.
type ProductRepository interface {
	SaveProduct(ctx context.Context, product models.Product) error
	UpdateProduct(ctx context.Context, product models.Product) error
	FindProductByID(ctx context.Context, productID string) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, productIDs []string) ([]models.Product, error)
	// ListProducts filters by a case-insensitive name keyword (empty matches all)
	// and sorts by "name", "-name", "price" or "-price" (empty leaves DB order).
	ListProducts(ctx context.Context, keyword, sortBy string) ([]models.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// InvoiceFilter narrows invoice listings for the CSV export.
type InvoiceFilter struct {
	IssueDateFrom *time.Time
	IssueDateTo   *time.Time
	ClientID      string
	Paid          *bool
}

// InvoiceRepository defines persistence operations for Invoices. It doubles as the
// scheduler's InvoiceStore: FindOverdueCandidates and FindUnpaidWithReminders are the
// two reads the reminder job depends on, and SaveInvoice is its per-invoice upsert.
type InvoiceRepository interface {
	SaveInvoice(ctx context.Context, invoice models.Invoice) error
	FindInvoiceByID(ctx context.Context, invoiceID string) (*models.Invoice, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]models.Invoice, error)
	DeleteInvoice(ctx context.Context, invoiceID string) error
	ExistsInvoiceNumberInYear(ctx context.Context, invoiceNumber string, year int) (bool, error)

	// FindOverdueCandidates returns PENDING invoices with dueDate strictly before
	// the given day. Already OVERDUE or PAID invoices never match.
	FindOverdueCandidates(ctx context.Context, before time.Time) ([]models.Invoice, error)
	// FindUnpaidWithReminders returns all unpaid invoices with their client,
	// products and reminder-sent dates loaded.
	FindUnpaidWithReminders(ctx context.Context) ([]models.Invoice, error)
}

// AuditLogRepository defines persistence operations for audit entries.
type AuditLogRepository interface {
	SaveAuditLog(ctx context.Context, entry models.AuditLog) error
	// ListAuditLogs filters by action and/or entity (empty string matches all),
	// newest first.
	ListAuditLogs(ctx context.Context, action, entity string) ([]models.AuditLog, error)
}

// UserRepository defines persistence operations for Users.
type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// RepositoryProvider bundles all repositories for service container wiring.
type RepositoryProvider struct {
	ClientRepo  ClientRepository
	ProductRepo ProductRepository
	InvoiceRepo InvoiceRepository
	AuditRepo   AuditLogRepository
	UserRepo    UserRepository
}
