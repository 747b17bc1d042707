package models

import "time"

// AuditLog records a single mutating action against a domain entity.
type AuditLog struct {
	AuditLogID string    `db:"audit_log_id"`
	Action     string    `db:"action"` // CREATE, UPDATE, DELETE, EMAIL_SENT, MARK_PAID
	Entity     string    `db:"entity"` // Invoice, Client, Product
	EntityID   string    `db:"entity_id"`
	Timestamp  time.Time `db:"timestamp"`
}
