package service

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, patch domain.CategoryUpdate) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// ListCategories retrieves all categories
func (s *categoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// CreateCategory creates a category; its name must not already be taken.
func (s *categoryService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	existing, err := s.categoryRepo.FindByName(ctx, category.Name)
	if err != nil && !domain.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}
	if existing != nil {
		return nil, domain.NewConflict("category", "name")
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// UpdateCategory applies a partial update. When the name is being changed to
// a value different from the current one, uniqueness is re-checked first.
func (s *categoryService) UpdateCategory(ctx context.Context, id int64, patch domain.CategoryUpdate) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != category.Name {
		existing, err := s.categoryRepo.FindByName(ctx, *patch.Name)
		if err != nil && !domain.IsNotFound(err) {
			return nil, fmt.Errorf("failed to check existing category: %w", err)
		}
		if existing != nil {
			return nil, domain.NewConflict("category", "name")
		}
	}

	return s.categoryRepo.Update(ctx, id, patch)
}

// DeleteCategory removes a category; its products keep existing with a NULL
// category reference.
func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categoryRepo.Delete(ctx, id)
}
