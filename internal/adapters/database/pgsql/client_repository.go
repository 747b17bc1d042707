package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ezzerof/smart-invoice-backend/internal/apperrors"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxClientRepository struct {
	pool *pgxpool.Pool
}

// NewPgxClientRepository creates a new repository for client data.
func NewPgxClientRepository(pool *pgxpool.Pool) ports.ClientRepository {
	return &PgxClientRepository{pool: pool}
}

const clientColumns = `
	client_id, name, email, company_name, address, city, country, postcode,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveClient inserts a new client.
func (r *PgxClientRepository) SaveClient(ctx context.Context, client models.Client) error {
	query := `
		INSERT INTO clients (client_id, name, email, company_name, address, city, country, postcode,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		client.ClientID, client.Name, client.Email, client.CompanyName,
		client.Address, client.City, client.Country, client.Postcode,
		client.CreatedAt, client.CreatedBy, client.LastUpdatedAt, client.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("client %s: %w", client.ClientID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save client %s: %w", client.ClientID, err)
	}
	return nil
}

// UpdateClient replaces a client's editable fields.
func (r *PgxClientRepository) UpdateClient(ctx context.Context, client models.Client) error {
	query := `
		UPDATE clients SET name = $2, email = $3, company_name = $4, address = $5,
			city = $6, country = $7, postcode = $8, last_updated_at = $9, last_updated_by = $10
		WHERE client_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		client.ClientID, client.Name, client.Email, client.CompanyName,
		client.Address, client.City, client.Country, client.Postcode,
		client.LastUpdatedAt, client.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update client %s: %w", client.ClientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindClientByID retrieves a single client.
func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE client_id = $1;`
	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query client %s: %w", clientID, err)
	}
	client, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[models.Client])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan client %s: %w", clientID, err)
	}
	return &client, nil
}

// ListClients retrieves all clients ordered by name.
func (r *PgxClientRepository) ListClients(ctx context.Context) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	clients, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[models.Client])
	if err != nil {
		return nil, fmt.Errorf("failed to collect clients: %w", err)
	}
	return clients, nil
}

// DeleteClient removes a client.
func (r *PgxClientRepository) DeleteClient(ctx context.Context, clientID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE client_id = $1;`, clientID)
	if err != nil {
		return fmt.Errorf("failed to delete client %s: %w", clientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountInvoicesForClient counts the invoices referencing this client.
func (r *PgxClientRepository) CountInvoicesForClient(ctx context.Context, clientID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE client_id = $1;`, clientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices for client %s: %w", clientID, err)
	}
	return count, nil
}
