package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	List(ctx context.Context) ([]*domain.Review, error)
	FindByID(ctx context.Context, id int64) (*domain.Review, error)
	FindByProductID(ctx context.Context, productID int64) ([]*domain.Review, error)
	FindByUserID(ctx context.Context, userID int64) ([]*domain.Review, error)
	Update(ctx context.Context, id int64, patch domain.ReviewUpdate) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a new review and fills in the generated id and timestamps.
// The unique (user_id, product_id) constraint backstops the service-level
// duplicate check.
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (user_id, product_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		review.UserID,
		review.ProductID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflict("review", "")
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// List retrieves all reviews with user and product names, most recent first
func (r *reviewRepository) List(ctx context.Context) ([]*domain.Review, error) {
	query := `
		SELECT r.id, r.user_id, r.product_id, r.rating, r.comment,
		       u.name AS user_name, p.name AS product_name, r.created_at, r.updated_at
		FROM reviews r
		LEFT JOIN users u ON r.user_id = u.id
		LEFT JOIN products p ON r.product_id = p.id
		ORDER BY r.id DESC
	`

	return r.queryReviews(ctx, query)
}

// FindByID retrieves a review by ID with user and product names
func (r *reviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := `
		SELECT r.id, r.user_id, r.product_id, r.rating, r.comment,
		       u.name AS user_name, p.name AS product_name, r.created_at, r.updated_at
		FROM reviews r
		LEFT JOIN users u ON r.user_id = u.id
		LEFT JOIN products p ON r.product_id = p.id
		WHERE r.id = $1
	`

	review := &domain.Review{}
	err := scanReview(r.db.QueryRowContext(ctx, query, id), review)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("review", id)
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}

	return review, nil
}

// FindByProductID retrieves all reviews for a product, most recent first
func (r *reviewRepository) FindByProductID(ctx context.Context, productID int64) ([]*domain.Review, error) {
	query := `
		SELECT r.id, r.user_id, r.product_id, r.rating, r.comment,
		       u.name AS user_name, p.name AS product_name, r.created_at, r.updated_at
		FROM reviews r
		LEFT JOIN users u ON r.user_id = u.id
		LEFT JOIN products p ON r.product_id = p.id
		WHERE r.product_id = $1
		ORDER BY r.id DESC
	`

	return r.queryReviews(ctx, query, productID)
}

// FindByUserID retrieves all reviews written by a user, most recent first
func (r *reviewRepository) FindByUserID(ctx context.Context, userID int64) ([]*domain.Review, error) {
	query := `
		SELECT r.id, r.user_id, r.product_id, r.rating, r.comment,
		       u.name AS user_name, p.name AS product_name, r.created_at, r.updated_at
		FROM reviews r
		LEFT JOIN users u ON r.user_id = u.id
		LEFT JOIN products p ON r.product_id = p.id
		WHERE r.user_id = $1
		ORDER BY r.id DESC
	`

	return r.queryReviews(ctx, query, userID)
}

// Update applies a partial update to rating and/or comment. An empty patch
// returns the current row unchanged.
func (r *reviewRepository) Update(ctx context.Context, id int64, patch domain.ReviewUpdate) (*domain.Review, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	sets := []string{}
	args := []interface{}{}
	arg := 1

	if patch.Rating != nil {
		sets = append(sets, fmt.Sprintf("rating = $%d", arg))
		args = append(args, *patch.Rating)
		arg++
	}
	if patch.Comment != nil {
		sets = append(sets, fmt.Sprintf("comment = $%d", arg))
		args = append(args, *patch.Comment)
		arg++
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE reviews
		SET %s
		WHERE id = $%d
		RETURNING id, user_id, product_id, rating, comment, created_at, updated_at
	`, strings.Join(sets, ", "), arg)

	review := &domain.Review{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&review.ID,
		&review.UserID,
		&review.ProductID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("review", id)
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return review, nil
}

// Delete removes a review from the database using parameterized queries
func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFound("review", id)
	}

	return nil
}

func (r *reviewRepository) queryReviews(ctx context.Context, query string, args ...interface{}) ([]*domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		review := &domain.Review{}
		if err := scanReview(rows, review); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

func scanReview(s scanner, review *domain.Review) error {
	return s.Scan(
		&review.ID,
		&review.UserID,
		&review.ProductID,
		&review.Rating,
		&review.Comment,
		&review.UserName,
		&review.ProductName,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
}
