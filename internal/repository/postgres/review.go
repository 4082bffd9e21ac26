package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/internal/repository"
	"github.com/velaflam/storefront/pkg/database"
	apperrors "github.com/velaflam/storefront/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, customer_name, customer_email, rating, title, comment, is_verified, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		rev.ID,
		rev.ProductID,
		rev.CustomerName,
		rev.CustomerEmail,
		rev.Rating,
		rev.Title,
		rev.Comment,
		rev.IsVerified,
		rev.IsApproved,
		rev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves a single review.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `
		SELECT id, product_id, customer_name, customer_email, rating, title, comment, is_verified, is_approved, created_at
		FROM reviews
		WHERE id = $1`

	var rev domain.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rev.ID,
		&rev.ProductID,
		&rev.CustomerName,
		&rev.CustomerEmail,
		&rev.Rating,
		&rev.Title,
		&rev.Comment,
		&rev.IsVerified,
		&rev.IsApproved,
		&rev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("select review: %w", err)
	}

	return &rev, nil
}

// List returns reviews matching the filter, newest first.
func (r *ReviewRepository) List(ctx context.Context, filter repository.ReviewFilter) ([]domain.Review, error) {
	query := `
		SELECT id, product_id, customer_name, customer_email, rating, title, comment, is_verified, is_approved, created_at
		FROM reviews
		WHERE 1=1`

	var args []any
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		query += ` AND product_id = $` + strconv.Itoa(len(args))
	}
	if filter.ApprovedOnly {
		query += ` AND is_approved = TRUE`
	}
	if filter.PendingOnly {
		query += ` AND is_approved = FALSE`
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(
			&rev.ID, &rev.ProductID, &rev.CustomerName, &rev.CustomerEmail,
			&rev.Rating, &rev.Title, &rev.Comment, &rev.IsVerified, &rev.IsApproved, &rev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// SetApproval toggles the moderation flag on a review.
func (r *ReviewRepository) SetApproval(ctx context.Context, id string, approved bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reviews SET is_approved = $1 WHERE id = $2`,
		approved, id,
	)
	if err != nil {
		return fmt.Errorf("update review approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}
	return nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}
	return nil
}
