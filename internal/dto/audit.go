package dto

import (
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/models"
)

// AuditLogResponse defines the data returned for an audit log entry.
type AuditLogResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityId"`
	Timestamp time.Time `json:"timestamp"`
}

// ToListAuditLogResponse converts audit entries to response DTOs.
func ToListAuditLogResponse(entries []models.AuditLog) []AuditLogResponse {
	res := make([]AuditLogResponse, len(entries))
	for i, e := range entries {
		res[i] = AuditLogResponse{
			ID:        e.AuditLogID,
			Action:    e.Action,
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			Timestamp: e.Timestamp,
		}
	}
	return res
}
