package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/pkg/database"
	apperrors "github.com/velaflam/storefront/pkg/errors"
)

// AdminUserRepository implements repository.AdminUserRepository using PostgreSQL.
type AdminUserRepository struct {
	pool database.DBTX
}

// NewAdminUserRepository creates a new PostgreSQL-backed admin user repository.
func NewAdminUserRepository(pool database.DBTX) *AdminUserRepository {
	return &AdminUserRepository{pool: pool}
}

// Create inserts a back-office account. Emails are unique.
func (r *AdminUserRepository) Create(ctx context.Context, u *domain.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, email, password_hash, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("admin user", "email", u.Email)
		}
		return fmt.Errorf("insert admin user: %w", err)
	}

	return nil
}

// GetByEmail retrieves an admin account by email.
func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, name, role, created_at
		FROM admin_users
		WHERE email = $1`

	var u domain.AdminUser
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("admin user", email)
		}
		return nil, fmt.Errorf("select admin user: %w", err)
	}

	return &u, nil
}

// List returns all admin accounts ordered by creation time.
func (r *AdminUserRepository) List(ctx context.Context) ([]domain.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, name, role, created_at
		FROM admin_users
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select admin users: %w", err)
	}
	defer rows.Close()

	var users []domain.AdminUser
	for rows.Next() {
		var u domain.AdminUser
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan admin user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin users: %w", err)
	}

	return users, nil
}

// Count returns the number of admin accounts.
func (r *AdminUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admin users: %w", err)
	}
	return n, nil
}
