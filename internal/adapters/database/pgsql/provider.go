package pgsql

import (
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the full set of PostgreSQL-backed repositories
// sharing one connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) ports.RepositoryProvider {
	return ports.RepositoryProvider{
		ClientRepo:  NewPgxClientRepository(pool),
		ProductRepo: NewPgxProductRepository(pool),
		InvoiceRepo: NewPgxInvoiceRepository(pool),
		AuditRepo:   NewPgxAuditLogRepository(pool),
		UserRepo:    NewPgxUserRepository(pool),
	}
}
