package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockProductRepository struct {
	products map[int64]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, domain.NewNotFound("product", id)
	}
	return product, nil
}

func (m *mockProductRepository) FindByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for _, p := range m.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			products = append(products, p)
		}
	}
	return products, nil
}

func (m *mockProductRepository) Update(ctx context.Context, id int64, patch domain.ProductUpdate) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, domain.NewNotFound("product", id)
	}
	return product, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return domain.NewNotFound("product", id)
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) DecrementStock(ctx context.Context, id int64, quantity int) error {
	product, ok := m.products[id]
	if !ok {
		return domain.NewNotFound("product", id)
	}
	product.Stock -= quantity
	return nil
}

type mockReviewRepository struct {
	reviews map[int64]*domain.Review
	nextID  int64
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{reviews: make(map[int64]*domain.Review), nextID: 1}
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	for _, r := range m.reviews {
		if r.UserID == review.UserID && r.ProductID == review.ProductID {
			return domain.NewConflict("review", "")
		}
	}
	review.ID = m.nextID
	m.nextID++
	m.reviews[review.ID] = review
	return nil
}

func (m *mockReviewRepository) List(ctx context.Context) ([]*domain.Review, error) {
	reviews := []*domain.Review{}
	for _, r := range m.reviews {
		reviews = append(reviews, r)
	}
	return reviews, nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	review, ok := m.reviews[id]
	if !ok {
		return nil, domain.NewNotFound("review", id)
	}
	return review, nil
}

func (m *mockReviewRepository) FindByProductID(ctx context.Context, productID int64) ([]*domain.Review, error) {
	reviews := []*domain.Review{}
	for _, r := range m.reviews {
		if r.ProductID == productID {
			reviews = append(reviews, r)
		}
	}
	return reviews, nil
}

func (m *mockReviewRepository) FindByUserID(ctx context.Context, userID int64) ([]*domain.Review, error) {
	reviews := []*domain.Review{}
	for _, r := range m.reviews {
		if r.UserID == userID {
			reviews = append(reviews, r)
		}
	}
	return reviews, nil
}

func (m *mockReviewRepository) Update(ctx context.Context, id int64, patch domain.ReviewUpdate) (*domain.Review, error) {
	review, ok := m.reviews[id]
	if !ok {
		return nil, domain.NewNotFound("review", id)
	}
	if patch.Rating != nil {
		review.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		review.Comment = patch.Comment
	}
	return review, nil
}

func (m *mockReviewRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.reviews[id]; !ok {
		return domain.NewNotFound("review", id)
	}
	delete(m.reviews, id)
	return nil
}

func newReviewTestRouter() (*mockUserRepository, *mockProductRepository, *chi.Mux) {
	userRepo := newMockUserRepository()
	productRepo := newMockProductRepository()
	reviewRepo := newMockReviewRepository()
	reviewService := service.NewReviewService(reviewRepo, userRepo, productRepo)
	handler := NewReviewHandler(reviewService, zap.NewNop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return userRepo, productRepo, r
}

func TestReviewHandler_Create(t *testing.T) {
	userRepo, productRepo, router := newReviewTestRouter()
	userRepo.users[1] = &domain.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
	productRepo.products[1] = &domain.Product{ID: 1, Name: "Laptop", Price: 15000, Stock: 10}

	w := doJSON(t, router, http.MethodPost, "/api/reviews", CreateReviewRequest{
		UserID: 1, ProductID: 1, Rating: 5,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var review domain.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
	assert.Equal(t, int64(1), review.UserID)
	assert.Equal(t, 5, review.Rating)
}

func TestReviewHandler_Create_UnknownUserIsBadRequest(t *testing.T) {
	_, productRepo, router := newReviewTestRouter()
	productRepo.products[1] = &domain.Product{ID: 1, Name: "Laptop", Price: 15000, Stock: 10}

	w := doJSON(t, router, http.MethodPost, "/api/reviews", CreateReviewRequest{
		UserID: 42, ProductID: 1, Rating: 4,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_Create_UnknownProductIsBadRequest(t *testing.T) {
	userRepo, _, router := newReviewTestRouter()
	userRepo.users[1] = &domain.User{ID: 1, Name: "Alice", Email: "alice@example.com"}

	w := doJSON(t, router, http.MethodPost, "/api/reviews", CreateReviewRequest{
		UserID: 1, ProductID: 42, Rating: 4,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_Create_DuplicatePairIsBadRequest(t *testing.T) {
	userRepo, productRepo, router := newReviewTestRouter()
	userRepo.users[1] = &domain.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
	productRepo.products[1] = &domain.Product{ID: 1, Name: "Laptop", Price: 15000, Stock: 10}

	first := doJSON(t, router, http.MethodPost, "/api/reviews", CreateReviewRequest{
		UserID: 1, ProductID: 1, Rating: 5,
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, router, http.MethodPost, "/api/reviews", CreateReviewRequest{
		UserID: 1, ProductID: 1, Rating: 2,
	})
	assert.Equal(t, http.StatusBadRequest, second.Code)
}

func TestReviewHandler_Create_RatingOutOfRangeRejected(t *testing.T) {
	userRepo, productRepo, router := newReviewTestRouter()
	userRepo.users[1] = &domain.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
	productRepo.products[1] = &domain.Product{ID: 1, Name: "Laptop", Price: 15000, Stock: 10}

	w := doJSON(t, router, http.MethodPost, "/api/reviews", CreateReviewRequest{
		UserID: 1, ProductID: 1, Rating: 6,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
