package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ezzerof/smart-invoice-backend/internal/apperrors"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProductRepository struct {
	pool *pgxpool.Pool
}

// NewPgxProductRepository creates a new repository for product data.
func NewPgxProductRepository(pool *pgxpool.Pool) ports.ProductRepository {
	return &PgxProductRepository{pool: pool}
}

const productColumns = `
	product_id, name, description, price, quantity,
	created_at, created_by, last_updated_at, last_updated_by`

// sort keys are validated in the service layer; this maps them to ORDER BY clauses.
var productOrderBy = map[string]string{
	"name":   "name ASC",
	"-name":  "name DESC",
	"price":  "price ASC",
	"-price": "price DESC",
	"":       "created_at ASC",
}

// SaveProduct inserts a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product models.Product) error {
	query := `
		INSERT INTO products (product_id, name, description, price, quantity,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		product.ProductID, product.Name, product.Description, product.Price, product.Quantity,
		product.CreatedAt, product.CreatedBy, product.LastUpdatedAt, product.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", product.ProductID, err)
	}
	return nil
}

// UpdateProduct replaces a product's editable fields.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product models.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, quantity = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE product_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		product.ProductID, product.Name, product.Description, product.Price, product.Quantity,
		product.LastUpdatedAt, product.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ProductID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindProductByID retrieves a single product.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product %s: %w", productID, err)
	}
	product, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[models.Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan product %s: %w", productID, err)
	}
	return &product, nil
}

// FindProductsByIDs retrieves all products whose IDs appear in productIDs.
// Missing IDs are simply absent from the result; the caller checks the count.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) ([]models.Product, error) {
	if len(productIDs) == 0 {
		return []models.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[models.Product])
	if err != nil {
		return nil, fmt.Errorf("failed to collect products: %w", err)
	}
	return products, nil
}

// ListProducts retrieves products matching the keyword, sorted by sortBy.
func (r *PgxProductRepository) ListProducts(ctx context.Context, keyword, sortBy string) ([]models.Product, error) {
	orderBy, ok := productOrderBy[sortBy]
	if !ok {
		orderBy = productOrderBy[""]
	}
	query := `SELECT ` + productColumns + ` FROM products
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY ` + orderBy + `;`
	rows, err := r.pool.Query(ctx, query, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[models.Product])
	if err != nil {
		return nil, fmt.Errorf("failed to collect products: %w", err)
	}
	return products, nil
}

// DeleteProduct removes a product.
func (r *PgxProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE product_id = $1;`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
