package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/internal/repository"
	apperrors "github.com/velaflam/storefront/pkg/errors"
	"github.com/velaflam/storefront/pkg/pagination"
	"github.com/velaflam/storefront/pkg/slug"
)

// CreateProductInput holds the parameters for creating a catalog product.
type CreateProductInput struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	Price         int64  `json:"price" validate:"gte=0"`
	Category      string `json:"category" validate:"required"`
	ImageURL      string `json:"image_url"`
	StockQuantity int    `json:"stock_quantity" validate:"gte=0"`
	IsFeatured    bool   `json:"is_featured"`
	IsNewArrival  bool   `json:"is_new_arrival"`
}

// UpdateProductInput holds the parameters for updating a product. Nil fields
// are left unchanged.
type UpdateProductInput struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *int64  `json:"price"`
	Category      *string `json:"category"`
	ImageURL      *string `json:"image_url"`
	StockQuantity *int    `json:"stock_quantity"`
	IsFeatured    *bool   `json:"is_featured"`
	IsNewArrival  *bool   `json:"is_new_arrival"`
}

// ProductService implements catalog management.
type ProductService struct {
	repo   repository.ProductRepository
	logger *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger,
	}
}

// CreateProduct adds a product to the catalog. The slug is derived from the
// name; a duplicate slug is rejected as AlreadyExists.
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Category == "" {
		return nil, apperrors.InvalidInput("category is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.StockQuantity < 0 {
		return nil, apperrors.InvalidInput("stock quantity must not be negative")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Slug:          slug.Generate(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		Category:      input.Category,
		ImageURL:      input.ImageURL,
		StockQuantity: input.StockQuantity,
		IsFeatured:    input.IsFeatured,
		IsNewArrival:  input.IsNewArrival,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// GetProduct retrieves a product by ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

// ListProducts returns a page of catalog products matching the filter.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter, params pagination.Params) (pagination.Result[domain.Product], error) {
	products, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Result[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}

	return pagination.NewResult(products, total, params), nil
}

// UpdateProduct applies the non-nil fields of the input to an existing
// product. Renaming regenerates the slug.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		product.Name = *input.Name
		product.Slug = slug.Generate(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Category != nil {
		if *input.Category == "" {
			return nil, apperrors.InvalidInput("category must not be empty")
		}
		product.Category = *input.Category
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, apperrors.InvalidInput("stock quantity must not be negative")
		}
		product.StockQuantity = *input.StockQuantity
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsNewArrival != nil {
		product.IsNewArrival = *input.IsNewArrival
	}

	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", id))

	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	return nil
}
