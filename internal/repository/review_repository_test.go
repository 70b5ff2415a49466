package repository

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository_UniquePairEnforcedByDatabase(t *testing.T) {
	repo := NewReviewRepository(testDB)
	ctx := context.Background()

	user := createTestUser(t)
	product := createTestProduct(t, 100, 10)

	require.NoError(t, repo.Create(ctx, &domain.Review{
		UserID: user.ID, ProductID: product.ID, Rating: 5,
	}))

	// second insert for the same pair trips the unique constraint
	err := repo.Create(ctx, &domain.Review{
		UserID: user.ID, ProductID: product.ID, Rating: 1,
	})
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
}

func TestReviewRepository_FindByProductID_JoinsNames(t *testing.T) {
	repo := NewReviewRepository(testDB)
	ctx := context.Background()

	user := createTestUser(t)
	product := createTestProduct(t, 100, 10)

	comment := "works as advertised"
	require.NoError(t, repo.Create(ctx, &domain.Review{
		UserID: user.ID, ProductID: product.ID, Rating: 4, Comment: &comment,
	}))

	reviews, err := repo.FindByProductID(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.NotNil(t, reviews[0].UserName)
	assert.Equal(t, user.Name, *reviews[0].UserName)
	require.NotNil(t, reviews[0].ProductName)
	assert.Equal(t, product.Name, *reviews[0].ProductName)
}

func TestReviewRepository_CascadeOnProductDelete(t *testing.T) {
	reviewRepo := NewReviewRepository(testDB)
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()

	user := createTestUser(t)
	product := createTestProduct(t, 100, 10)

	review := &domain.Review{UserID: user.ID, ProductID: product.ID, Rating: 3}
	require.NoError(t, reviewRepo.Create(ctx, review))

	require.NoError(t, productRepo.Delete(ctx, product.ID))

	_, err := reviewRepo.FindByID(ctx, review.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestReviewRepository_UpdateRating(t *testing.T) {
	repo := NewReviewRepository(testDB)
	ctx := context.Background()

	user := createTestUser(t)
	product := createTestProduct(t, 100, 10)

	review := &domain.Review{UserID: user.ID, ProductID: product.ID, Rating: 5}
	require.NoError(t, repo.Create(ctx, review))

	rating := 1
	updated, err := repo.Update(ctx, review.ID, domain.ReviewUpdate{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Rating)
	assert.Nil(t, updated.Comment)
}
