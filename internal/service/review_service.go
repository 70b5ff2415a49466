package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// ReviewService defines the interface for review business logic
type ReviewService interface {
	ListReviews(ctx context.Context) ([]*domain.Review, error)
	GetReviewByID(ctx context.Context, id int64) (*domain.Review, error)
	GetReviewsByProductID(ctx context.Context, productID int64) ([]*domain.Review, error)
	GetReviewsByUserID(ctx context.Context, userID int64) ([]*domain.Review, error)
	CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error)
	UpdateReview(ctx context.Context, id int64, patch domain.ReviewUpdate) (*domain.Review, error)
	DeleteReview(ctx context.Context, id int64) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(reviewRepo repository.ReviewRepository, userRepo repository.UserRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// ListReviews retrieves all reviews
func (s *reviewService) ListReviews(ctx context.Context) ([]*domain.Review, error) {
	return s.reviewRepo.List(ctx)
}

// GetReviewByID retrieves a review by ID
func (s *reviewService) GetReviewByID(ctx context.Context, id int64) (*domain.Review, error) {
	return s.reviewRepo.FindByID(ctx, id)
}

// GetReviewsByProductID retrieves a product's reviews; the product must exist.
func (s *reviewService) GetReviewsByProductID(ctx context.Context, productID int64) ([]*domain.Review, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	return s.reviewRepo.FindByProductID(ctx, productID)
}

// GetReviewsByUserID retrieves a user's reviews; the user must exist.
func (s *reviewService) GetReviewsByUserID(ctx context.Context, userID int64) ([]*domain.Review, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.reviewRepo.FindByUserID(ctx, userID)
}

// CreateReview creates a review. User and product must both exist, and the
// (user, product) pair must not already have one: the product's existing
// reviews are scanned for the user before inserting.
func (s *reviewService) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if _, err := s.userRepo.FindByID(ctx, review.UserID); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, review.ProductID); err != nil {
		return nil, err
	}

	existing, err := s.reviewRepo.FindByProductID(ctx, review.ProductID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.UserID == review.UserID {
			return nil, domain.NewConflict("review", "")
		}
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// UpdateReview applies a partial update to rating and/or comment
func (s *reviewService) UpdateReview(ctx context.Context, id int64, patch domain.ReviewUpdate) (*domain.Review, error) {
	return s.reviewRepo.Update(ctx, id, patch)
}

// DeleteReview removes a review
func (s *reviewService) DeleteReview(ctx context.Context, id int64) error {
	return s.reviewRepo.Delete(ctx, id)
}
