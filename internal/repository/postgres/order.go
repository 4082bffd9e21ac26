package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/pkg/database"
	apperrors "github.com/velaflam/storefront/pkg/errors"
	"github.com/velaflam/storefront/pkg/pagination"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts the order header and all line items atomically within a
// transaction. A failed item insert rolls the header back, so a partial order
// can never exist.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (id, guest_name, guest_email, guest_phone, shipping_address, notes, total_amount, status, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = tx.Exec(ctx, orderQuery,
		o.ID,
		o.GuestName,
		o.GuestEmail,
		o.GuestPhone,
		o.ShippingAddress,
		o.Notes,
		o.TotalAmount,
		o.Status,
		o.PaymentMethod,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, item := range o.Items {
		_, err = tx.Exec(ctx, itemQuery,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Name,
			item.Price,
			item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID, eagerly loading its items in a single
// query via LEFT JOIN + JSONB_AGG to avoid the N+1 pattern.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT
			o.id, o.guest_name, o.guest_email, o.guest_phone, o.shipping_address,
			o.notes, o.total_amount, o.status, o.payment_method, o.created_at, o.updated_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'id', oi.id,
						'order_id', oi.order_id,
						'product_id', oi.product_id,
						'name', oi.name,
						'price', oi.price,
						'quantity', oi.quantity
					) ORDER BY oi.id
				) FILTER (WHERE oi.id IS NOT NULL),
				'[]'::jsonb
			) AS items
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.id = $1
		GROUP BY o.id, o.guest_name, o.guest_email, o.guest_phone, o.shipping_address,
			o.notes, o.total_amount, o.status, o.payment_method, o.created_at, o.updated_at`

	var (
		o         domain.Order
		itemsJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.GuestName,
		&o.GuestEmail,
		&o.GuestPhone,
		&o.ShippingAddress,
		&o.Notes,
		&o.TotalAmount,
		&o.Status,
		&o.PaymentMethod,
		&o.CreatedAt,
		&o.UpdatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}

	return &o, nil
}

// List returns orders newest first, without items, plus the total count.
func (r *OrderRepository) List(ctx context.Context, params pagination.Params) ([]domain.Order, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `
		SELECT id, guest_name, guest_email, guest_phone, shipping_address, notes, total_amount, status, payment_method, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.GuestName, &o.GuestEmail, &o.GuestPhone, &o.ShippingAddress,
			&o.Notes, &o.TotalAmount, &o.Status, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus sets the order status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}
	return nil
}

// GroupByGuestEmail aggregates guest orders into per-customer summaries,
// sorted by total spent descending. Grouping happens in SQL rather than in
// application code.
func (r *OrderRepository) GroupByGuestEmail(ctx context.Context) ([]domain.CustomerSummary, error) {
	query := `
		SELECT
			guest_email,
			MAX(guest_name)  AS guest_name,
			MAX(guest_phone) AS guest_phone,
			COUNT(*)         AS order_count,
			SUM(total_amount) AS total_spent,
			MAX(created_at)  AS last_order_at
		FROM orders
		GROUP BY guest_email
		ORDER BY total_spent DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("group orders by guest email: %w", err)
	}
	defer rows.Close()

	var summaries []domain.CustomerSummary
	for rows.Next() {
		var s domain.CustomerSummary
		if err := rows.Scan(&s.GuestEmail, &s.GuestName, &s.GuestPhone, &s.OrderCount, &s.TotalSpent, &s.LastOrderAt); err != nil {
			return nil, fmt.Errorf("scan customer summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer summaries: %w", err)
	}

	return summaries, nil
}

// isUniqueViolation reports whether the error is a Postgres unique constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
