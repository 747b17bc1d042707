package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/google/uuid"
)

// AuditLogService records and queries the audit trail.
type AuditLogService struct {
	BaseService
	auditRepo ports.AuditLogRepository
}

// NewAuditLogService creates a new audit log service.
func NewAuditLogService(auditRepo ports.AuditLogRepository) *AuditLogService {
	return &AuditLogService{auditRepo: auditRepo}
}

// Record appends an audit entry. Best-effort: a failed audit write is logged but
// never fails the business operation it annotates.
func (s *AuditLogService) Record(ctx context.Context, action, entity, entityID string) {
	entry := models.AuditLog{
		AuditLogID: uuid.NewString(),
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.auditRepo.SaveAuditLog(ctx, entry); err != nil {
		s.LogWarn(ctx, "Failed to write audit log entry",
			slog.String("action", action),
			slog.String("entity", entity),
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()))
	}
}

// ListAuditLogs returns entries filtered by action and/or entity, newest first.
func (s *AuditLogService) ListAuditLogs(ctx context.Context, action, entity string) ([]models.AuditLog, error) {
	entries, err := s.auditRepo.ListAuditLogs(ctx, action, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	if entries == nil {
		return []models.AuditLog{}, nil
	}
	return entries, nil
}
