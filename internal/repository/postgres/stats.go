package postgres

import (
	"context"
	"fmt"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/pkg/database"
)

// StatsRepository computes dashboard aggregates with a single round trip.
type StatsRepository struct {
	pool database.DBTX
}

// NewStatsRepository creates a new PostgreSQL-backed stats repository.
func NewStatsRepository(pool database.DBTX) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// DashboardStats gathers the back-office overview counters. Scalar subqueries
// keep it to one query; the tables are small enough that this stays cheap.
func (r *StatsRepository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE status = 'pending'),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> 'cancelled'),
			(SELECT COUNT(*) FROM reviews),
			(SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE is_approved = TRUE),
			(SELECT COUNT(*) FROM contact_messages)`

	var s domain.DashboardStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.TotalProducts,
		&s.TotalOrders,
		&s.PendingOrders,
		&s.TotalRevenue,
		&s.TotalReviews,
		&s.AvgRating,
		&s.TotalMessages,
	)
	if err != nil {
		return nil, fmt.Errorf("select dashboard stats: %w", err)
	}

	return &s, nil
}
