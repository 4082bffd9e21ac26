package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/velaflam/storefront/internal/auth"
	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/internal/repository"
	apperrors "github.com/velaflam/storefront/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// LoginInput holds the parameters for an admin console login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminService implements back-office authentication and the dashboard.
type AdminService struct {
	users      repository.AdminUserRepository
	stats      repository.StatsRepository
	jwtManager *auth.JWTManager
	logger     *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(users repository.AdminUserRepository, stats repository.StatsRepository, jwtManager *auth.JWTManager, logger *slog.Logger) *AdminService {
	return &AdminService{
		users:      users,
		stats:      stats,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Bootstrap creates the initial admin account when the table is empty, so a
// fresh deployment is reachable with the configured credentials. Does nothing
// when accounts already exist or when no credentials are configured.
func (s *AdminService) Bootstrap(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	user := &domain.AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Administrator",
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Another instance may have won the race.
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	s.logger.InfoContext(ctx, "bootstrap admin account created", slog.String("email", email))

	return nil
}

// Login authenticates an admin with email and password, returning a signed
// access token. Unknown email and wrong password produce the same error.
func (s *AdminService) Login(ctx context.Context, input LoginInput) (string, *domain.AdminUser, error) {
	if input.Email == "" {
		return "", nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return "", nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.Unauthorized("invalid email or password")
		}
		return "", nil, fmt.Errorf("get admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.jwtManager.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.InfoContext(ctx, "admin logged in",
		slog.String("admin_id", user.ID),
		slog.String("email", user.Email),
	)

	return token, user, nil
}

// CreateAdmin adds a back-office account.
func (s *AdminService) CreateAdmin(ctx context.Context, email, password, name string) (*domain.AdminUser, error) {
	if email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if len(password) < 8 {
		return nil, apperrors.InvalidInput("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create admin user: %w", err)
	}

	s.logger.InfoContext(ctx, "admin account created",
		slog.String("admin_id", user.ID),
		slog.String("email", email),
	)

	return user, nil
}

// ListAdmins returns all back-office accounts.
func (s *AdminService) ListAdmins(ctx context.Context) ([]domain.AdminUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admin users: %w", err)
	}
	return users, nil
}

// DashboardStats gathers the back-office overview counters.
func (s *AdminService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats, err := s.stats.DashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}
