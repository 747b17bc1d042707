package ports

import (
	"context"
	"io"

	"github.com/Ezzerof/smart-invoice-backend/internal/dto"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
)

// ClientService exposes client CRUD and export.
type ClientService interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest) (*models.Client, error)
	GetClientByID(ctx context.Context, clientID string) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest) (*models.Client, error)
	// DeleteClient refuses (ErrConflict) while the client still has invoices.
	DeleteClient(ctx context.Context, clientID string) error
	WriteClientsCSV(ctx context.Context, w io.Writer) error
}

// ProductService exposes product CRUD with keyword filtering and sorting.
type ProductService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, productID string) (*models.Product, error)
	ListProducts(ctx context.Context, keyword, sortBy string) ([]models.Product, error)
	UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// InvoiceService exposes invoice CRUD, the external mark-paid action, PDF retrieval,
// on-demand emailing, and the filtered CSV export.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*models.Invoice, error)
	GetInvoiceByID(ctx context.Context, invoiceID string) (*models.Invoice, error)
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	DeleteInvoice(ctx context.Context, invoiceID string) error
	// MarkPaid moves the invoice to its terminal PAID state and stamps paidDate.
	MarkPaid(ctx context.Context, invoiceID string) (*models.Invoice, error)
	GetInvoicePDF(ctx context.Context, invoiceID string) ([]byte, error)
	EmailInvoice(ctx context.Context, invoiceID string) error
	WriteInvoicesCSV(ctx context.Context, w io.Writer, filter dto.InvoiceExportFilter) error
}

// AuditService records and queries the audit trail.
type AuditService interface {
	Record(ctx context.Context, action, entity, entityID string)
	ListAuditLogs(ctx context.Context, action, entity string) ([]models.AuditLog, error)
}

// UserService handles registration and credential verification.
type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error)
	// Login verifies credentials and returns a signed access token.
	Login(ctx context.Context, req dto.LoginRequest) (string, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// ServiceContainer holds instances of all application services. Handlers depend on
// this rather than on concrete implementations.
type ServiceContainer struct {
	Client  ClientService
	Product ProductService
	Invoice InvoiceService
	Audit   AuditService
	User    UserService
}
