package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/dto"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/google/uuid"
)

// allowed sortBy values for product listings; anything else leaves DB order.
var productSortKeys = map[string]bool{"name": true, "-name": true, "price": true, "-price": true}

// ProductService handles product CRUD.
type ProductService struct {
	BaseService
	productRepo ports.ProductRepository
	audit       ports.AuditService
}

// NewProductService creates a new product service.
func NewProductService(productRepo ports.ProductRepository, audit ports.AuditService) *ProductService {
	return &ProductService{productRepo: productRepo, audit: audit}
}

// CreateProduct registers a new product.
func (s *ProductService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*models.Product, error) {
	now := time.Now().UTC()
	product := models.Product{
		ProductID:   uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		AuditFields: models.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.audit.Record(ctx, "CREATE", "Product", product.ProductID)
	return &product, nil
}

// GetProductByID retrieves a single product.
func (s *ProductService) GetProductByID(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	return product, nil
}

// ListProducts retrieves products matching the keyword, sorted by sortBy.
// Unknown sort keys fall back to DB order, mirroring the filter's lenient contract.
func (s *ProductService) ListProducts(ctx context.Context, keyword, sortBy string) ([]models.Product, error) {
	if !productSortKeys[sortBy] {
		sortBy = ""
	}
	products, err := s.productRepo.ListProducts(ctx, keyword, sortBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		return []models.Product{}, nil
	}
	return products, nil
}

// UpdateProduct replaces the product's editable fields.
func (s *ProductService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest) (*models.Product, error) {
	existing, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Quantity = req.Quantity
	existing.LastUpdatedAt = time.Now().UTC()

	if err := s.productRepo.UpdateProduct(ctx, *existing); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", productID, err)
	}

	s.audit.Record(ctx, "UPDATE", "Product", productID)
	return existing, nil
}

// DeleteProduct removes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, productID string) error {
	if _, err := s.productRepo.FindProductByID(ctx, productID); err != nil {
		return fmt.Errorf("failed to find product %s: %w", productID, err)
	}

	if err := s.productRepo.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", productID, err)
	}

	s.audit.Record(ctx, "DELETE", "Product", productID)
	return nil
}
