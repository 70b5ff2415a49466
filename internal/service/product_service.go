package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// ProductService defines the interface for product business logic
type ProductService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, id int64, quantity int) (*domain.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ListProducts retrieves all products
func (s *productService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.List(ctx)
}

// GetProductByID retrieves a product by ID
func (s *productService) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// GetProductsByCategory retrieves a category's products; the category itself
// must exist.
func (s *productService) GetProductsByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}

	return s.productRepo.FindByCategory(ctx, categoryID)
}

// CreateProduct creates a product. A supplied category reference must resolve
// to an existing category; a nil reference is allowed.
func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *product.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct applies a partial update: only present patch fields are
// modified. A present category reference must resolve to an existing category.
func (s *productService) UpdateProduct(ctx context.Context, id int64, patch domain.ProductUpdate) (*domain.Product, error) {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if patch.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	return s.productRepo.Update(ctx, id, patch)
}

// DeleteProduct removes a product
func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	return s.productRepo.Delete(ctx, id)
}

// UpdateStock decrements a product's stock by quantity after checking
// sufficiency. Ordinary stock movement happens through the order workflow;
// this exists for manual inventory corrections.
func (s *productService) UpdateStock(ctx context.Context, id int64, quantity int) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.Stock < quantity {
		return nil, &domain.InsufficientStockError{Product: product.Name}
	}

	if err := s.productRepo.DecrementStock(ctx, id, quantity); err != nil {
		return nil, err
	}

	return s.productRepo.FindByID(ctx, id)
}
