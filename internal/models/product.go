package models

import "github.com/shopspring/decimal"

// Product is a line item that can appear on invoices.
type Product struct {
	ProductID   string          `db:"product_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Quantity    int             `db:"quantity"`
	AuditFields
}
