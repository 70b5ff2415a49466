package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCategoryRepository struct {
	categories map[int64]*domain.Category
	nextID     int64
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[int64]*domain.Category), nextID: 1}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, c := range m.categories {
		if c.Name == category.Name {
			return domain.NewConflict("category", "name")
		}
	}
	category.ID = m.nextID
	m.nextID++
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, domain.NewNotFound("category", id)
	}
	return category, nil
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, domain.NewNotFound("category", 0)
}

func (m *mockCategoryRepository) Update(ctx context.Context, id int64, patch domain.CategoryUpdate) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, domain.NewNotFound("category", id)
	}
	if patch.IsEmpty() {
		return category, nil
	}
	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.Description != nil {
		category.Description = patch.Description
	}
	category.UpdatedAt = time.Now()
	return category, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return domain.NewNotFound("category", id)
	}
	delete(m.categories, id)
	return nil
}

func addCategory(repo *mockCategoryRepository, name string) *domain.Category {
	category := &domain.Category{Name: name}
	_ = repo.Create(context.Background(), category)
	return category
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	repo := newMockCategoryRepository()
	svc := NewCategoryService(repo)
	addCategory(repo, "Electronics")

	_, err := svc.CreateCategory(context.Background(), &domain.Category{Name: "Electronics"})
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
	assert.Len(t, repo.categories, 1)
}

func TestUpdateCategory_RenameToTakenName(t *testing.T) {
	repo := newMockCategoryRepository()
	svc := NewCategoryService(repo)
	addCategory(repo, "Electronics")
	books := addCategory(repo, "Books")

	name := "Electronics"
	_, err := svc.UpdateCategory(context.Background(), books.ID, domain.CategoryUpdate{Name: &name})
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
}

func TestUpdateCategory_KeepOwnName(t *testing.T) {
	repo := newMockCategoryRepository()
	svc := NewCategoryService(repo)
	books := addCategory(repo, "Books")

	name := "Books"
	description := "printed matter"
	updated, err := svc.UpdateCategory(context.Background(), books.ID, domain.CategoryUpdate{
		Name:        &name,
		Description: &description,
	})
	require.NoError(t, err)
	assert.Equal(t, "Books", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "printed matter", *updated.Description)
}

func TestUpdateCategory_NotFound(t *testing.T) {
	svc := NewCategoryService(newMockCategoryRepository())

	name := "Ghost"
	_, err := svc.UpdateCategory(context.Background(), 99999, domain.CategoryUpdate{Name: &name})
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteCategory_NotFound(t *testing.T) {
	svc := NewCategoryService(newMockCategoryRepository())

	err := svc.DeleteCategory(context.Background(), 99999)
	assert.True(t, domain.IsNotFound(err))
}
