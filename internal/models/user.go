package models

// User is an authenticated operator of the billing tool.
type User struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	AuditFields
}
