package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/internal/event"
	"github.com/velaflam/storefront/internal/repository"
	apperrors "github.com/velaflam/storefront/pkg/errors"
)

// SubmitReviewInput holds the parameters for submitting a product review.
type SubmitReviewInput struct {
	ProductID     string `json:"product_id" validate:"required"`
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	Rating        int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title         string `json:"title"`
	Comment       string `json:"comment" validate:"required"`
}

// ReviewService implements review submission and moderation.
type ReviewService struct {
	repo     repository.ReviewRepository
	producer *event.Producer
	logger   *slog.Logger

	// requireModeration controls whether new reviews start hidden until an
	// admin approves them. When false, reviews are approved on submission.
	requireModeration bool
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, producer *event.Producer, logger *slog.Logger, requireModeration bool) *ReviewService {
	return &ReviewService{
		repo:              repo,
		producer:          producer,
		logger:            logger,
		requireModeration: requireModeration,
	}
}

// SubmitReview stores a new review. The rating bounds are enforced here
// regardless of what the client form allowed.
func (s *ReviewService) SubmitReview(ctx context.Context, input SubmitReviewInput) (*domain.Review, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.CustomerName == "" {
		return nil, apperrors.InvalidInput("customer name is required")
	}
	if input.CustomerEmail == "" {
		return nil, apperrors.InvalidInput("customer email is required")
	}
	if input.Comment == "" {
		return nil, apperrors.InvalidInput("comment is required")
	}
	if !domain.IsValidRating(input.Rating) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}

	review := &domain.Review{
		ID:            uuid.NewString(),
		ProductID:     input.ProductID,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		Rating:        input.Rating,
		Title:         input.Title,
		Comment:       input.Comment,
		IsVerified:    false,
		IsApproved:    !s.requireModeration,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.producer.PublishReviewSubmitted(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.submitted event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review submitted",
		slog.String("review_id", review.ID),
		slog.String("product_id", input.ProductID),
		slog.Int("rating", input.Rating),
		slog.Bool("approved", review.IsApproved),
	)

	return review, nil
}

// ListProductReviews returns the approved reviews for a product, newest first.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID string, limit int) ([]domain.Review, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	reviews, err := s.repo.List(ctx, repository.ReviewFilter{
		ProductID:    &productID,
		ApprovedOnly: true,
		Limit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list product reviews: %w", err)
	}

	return reviews, nil
}

// ListAllReviews returns every review for the back office, optionally only
// the ones awaiting moderation.
func (s *ReviewService) ListAllReviews(ctx context.Context, pendingOnly bool) ([]domain.Review, error) {
	reviews, err := s.repo.List(ctx, repository.ReviewFilter{PendingOnly: pendingOnly})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, nil
}

// SetApproval approves or hides a review.
func (s *ReviewService) SetApproval(ctx context.Context, id string, approved bool) (*domain.Review, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("review id is required")
	}

	if err := s.repo.SetApproval(ctx, id, approved); err != nil {
		return nil, fmt.Errorf("set review approval: %w", err)
	}

	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review after approval: %w", err)
	}

	s.logger.InfoContext(ctx, "review approval updated",
		slog.String("review_id", id),
		slog.Bool("approved", approved),
	)

	return review, nil
}

// DeleteReview removes a review permanently.
func (s *ReviewService) DeleteReview(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("review id is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.InfoContext(ctx, "review deleted", slog.String("review_id", id))

	return nil
}
