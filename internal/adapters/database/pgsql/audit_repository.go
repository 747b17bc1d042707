package pgsql

import (
	"context"
	"fmt"

	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditLogRepository struct {
	pool *pgxpool.Pool
}

// NewPgxAuditLogRepository creates a new repository for audit entries.
func NewPgxAuditLogRepository(pool *pgxpool.Pool) ports.AuditLogRepository {
	return &PgxAuditLogRepository{pool: pool}
}

// SaveAuditLog appends an audit entry.
func (r *PgxAuditLogRepository) SaveAuditLog(ctx context.Context, entry models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (audit_log_id, action, entity, entity_id, timestamp)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.pool.Exec(ctx, query,
		entry.AuditLogID, entry.Action, entry.Entity, entry.EntityID, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to save audit entry: %w", err)
	}
	return nil
}

// ListAuditLogs retrieves entries matching the optional action/entity filters,
// newest first.
func (r *PgxAuditLogRepository) ListAuditLogs(ctx context.Context, action, entity string) ([]models.AuditLog, error) {
	query := `
		SELECT audit_log_id, action, entity, entity_id, timestamp
		FROM audit_logs
		WHERE ($1 = '' OR action = $1) AND ($2 = '' OR entity = $2)
		ORDER BY timestamp DESC;
	`
	rows, err := r.pool.Query(ctx, query, action, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[models.AuditLog])
	if err != nil {
		return nil, fmt.Errorf("failed to collect audit entries: %w", err)
	}
	return entries, nil
}
