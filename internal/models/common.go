package models

import "time"

// AuditFields holds common metadata tracked on every persisted entity.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	CreatedBy     string    `db:"created_by" json:"createdBy"`
	LastUpdatedAt time.Time `db:"last_updated_at" json:"lastUpdatedAt"`
	LastUpdatedBy string    `db:"last_updated_by" json:"lastUpdatedBy"`
}
