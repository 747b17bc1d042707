package models

// Client represents a billed customer. The scheduler only reads Name and Email;
// the rest is CRUD surface.
type Client struct {
	ClientID    string `db:"client_id"`
	Name        string `db:"name"`
	Email       string `db:"email"`
	CompanyName string `db:"company_name"`
	Address     string `db:"address"`
	City        string `db:"city"`
	Country     string `db:"country"`
	Postcode    string `db:"postcode"`
	AuditFields
}
