package services

import (
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/platform/config"
)

// NewServiceContainer wires all application services with their dependencies.
func NewServiceContainer(
	cfg *config.Config,
	repos ports.RepositoryProvider,
	clock ports.Clock,
	generator ports.DocumentGenerator,
	sender ports.NotificationSender,
) *ports.ServiceContainer {
	container := &ports.ServiceContainer{}

	// Audit goes first; the other services record through it.
	container.Audit = NewAuditLogService(repos.AuditRepo)

	container.Client = NewClientService(repos.ClientRepo, container.Audit)
	container.Product = NewProductService(repos.ProductRepo, container.Audit)
	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.ClientRepo,
		repos.ProductRepo,
		container.Audit,
		generator,
		sender,
		clock,
	)
	container.User = NewUserService(repos.UserRepo, cfg)

	return container
}

// Compile-time interface checks.
var (
	_ ports.ClientService  = (*ClientService)(nil)
	_ ports.ProductService = (*ProductService)(nil)
	_ ports.InvoiceService = (*InvoiceService)(nil)
	_ ports.AuditService   = (*AuditLogService)(nil)
	_ ports.UserService    = (*UserService)(nil)
)
