package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateReviewRequest represents the review creation payload
type CreateReviewRequest struct {
	UserID    int64   `json:"user_id" validate:"required,gt=0"`
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Comment   *string `json:"comment" validate:"omitempty,max=1000"`
}

// UpdateReviewRequest represents a partial review update
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

// ReviewHandler handles HTTP requests for review operations
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// RegisterRoutes registers all review routes
func (h *ReviewHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/reviews", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/product/{productID}", h.ListByProduct)
		r.Get("/user/{userID}", h.ListByUser)
		r.Get("/{id}", h.GetByID)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles listing all reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.ListReviews(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}

// ListByProduct handles listing a product's reviews
func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(r, "productID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	reviews, err := h.reviewService.GetReviewsByProductID(r.Context(), productID)
	if err != nil {
		respondDomainError(w, h.logger, err, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}

// ListByUser handles listing a user's reviews
func (h *ReviewHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	reviews, err := h.reviewService.GetReviewsByUserID(r.Context(), userID)
	if err != nil {
		respondDomainError(w, h.logger, err, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}

// GetByID handles fetching a single review
func (h *ReviewHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid review ID")
		return
	}

	review, err := h.reviewService.GetReviewByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err, "failed to get review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, review)
}

// Create handles review creation. As with order creation, an absent user or
// product is the caller's mistake in the request body, so NotFound maps to 400.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	review := &domain.Review{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	created, err := h.reviewService.CreateReview(r.Context(), review)
	if err != nil {
		if domain.IsNotFound(err) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondDomainError(w, h.logger, err, "failed to create review")
		return
	}

	h.logger.Info("Review created",
		zap.Int64("review_id", created.ID),
		zap.Int64("product_id", created.ProductID),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

// Update handles a partial review update
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid review ID")
		return
	}

	var req UpdateReviewRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	patch := domain.ReviewUpdate{
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	review, err := h.reviewService.UpdateReview(r.Context(), id, patch)
	if err != nil {
		respondDomainError(w, h.logger, err, "failed to update review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, review)
}

// Delete handles review deletion
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid review ID")
		return
	}

	if err := h.reviewService.DeleteReview(r.Context(), id); err != nil {
		respondDomainError(w, h.logger, err, "failed to delete review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "review deleted"})
}
