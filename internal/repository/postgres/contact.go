package postgres

import (
	"context"
	"fmt"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/pkg/database"
	apperrors "github.com/velaflam/storefront/pkg/errors"
	"github.com/velaflam/storefront/pkg/pagination"
)

// ContactRepository implements repository.ContactRepository using PostgreSQL.
type ContactRepository struct {
	pool database.DBTX
}

// NewContactRepository creates a new PostgreSQL-backed contact message repository.
func NewContactRepository(pool database.DBTX) *ContactRepository {
	return &ContactRepository{pool: pool}
}

// Create stores a contact message.
func (r *ContactRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, m.ID, m.Name, m.Email, m.Message, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}

	return nil
}

// List returns contact messages newest first, plus the total count.
func (r *ContactRepository) List(ctx context.Context, params pagination.Params) ([]domain.ContactMessage, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contact messages: %w", err)
	}

	query := `
		SELECT id, name, email, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("select contact messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ContactMessage
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contact messages: %w", err)
	}

	return messages, total, nil
}

// Delete removes a contact message.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("contact message", id)
	}
	return nil
}
