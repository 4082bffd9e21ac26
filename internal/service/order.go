package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/internal/event"
	"github.com/velaflam/storefront/internal/repository"
	apperrors "github.com/velaflam/storefront/pkg/errors"
	"github.com/velaflam/storefront/pkg/pagination"
)

// CheckoutInput holds the guest details collected at checkout. All fields
// except Notes are mandatory.
type CheckoutInput struct {
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Notes      string `json:"notes"`
}

// OrderService implements checkout and back-office order management.
type OrderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		producer: producer,
		logger:   logger,
	}
}

// Checkout converts the session's cart into an order. All guest fields are
// validated and the cart confirmed non-empty before anything is written; the
// header and line items go into the database in one transaction. On success
// the cart is cleared and an order.created event is published, both
// best-effort.
func (s *OrderService) Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*domain.Order, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.FullName == "" {
		return nil, apperrors.InvalidInput("full name is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Phone == "" {
		return nil, apperrors.InvalidInput("phone is required")
	}
	if input.Address == "" {
		return nil, apperrors.InvalidInput("address is required")
	}
	if input.City == "" {
		return nil, apperrors.InvalidInput("city is required")
	}
	if input.PostalCode == "" {
		return nil, apperrors.InvalidInput("postal code is required")
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		// A missing or unreadable cart is an empty cart as far as checkout
		// is concerned.
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, repository.ErrCorruptState) {
			return nil, apperrors.InvalidInput("cart is empty")
		}
		return nil, fmt.Errorf("get cart for checkout: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	now := time.Now().UTC()
	orderID := uuid.NewString()

	order := &domain.Order{
		ID:              orderID,
		GuestName:       input.FullName,
		GuestEmail:      input.Email,
		GuestPhone:      input.Phone,
		ShippingAddress: domain.FormatShippingAddress(input.Address, input.City, input.PostalCode),
		Notes:           input.Notes,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   domain.PaymentMethodCashOnDelivery,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Prices come from the cart snapshot, not re-fetched from the catalog.
	for _, item := range cart.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   orderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	order.TotalAmount = cart.Total()

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The order exists; a failed cart delete only leaves a stale cart behind.
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", sessionID),
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", orderID),
		slog.String("session_id", sessionID),
		slog.String("guest_email", input.Email),
		slog.Int64("total_amount", order.TotalAmount),
	)

	return order, nil
}

// GetOrder retrieves an order with its items.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	return order, nil
}

// ListOrders returns a page of orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, params pagination.Params) (pagination.Result[domain.Order], error) {
	orders, total, err := s.orders.List(ctx, params)
	if err != nil {
		return pagination.Result[domain.Order]{}, fmt.Errorf("list orders: %w", err)
	}

	return pagination.NewResult(orders, total, params), nil
}

// UpdateStatus moves an order to a new status, enforcing the lifecycle
// transitions (pending -> confirmed -> shipped -> delivered, with
// cancellation allowed before shipping).
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}
	if !domain.IsValidOrderStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid order status %q", status))
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for status update: %w", err)
	}

	if !order.CanTransitionTo(status) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	oldStatus := order.Status
	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	if err := s.producer.PublishOrderStatusChanged(ctx, id, oldStatus, status); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("old_status", oldStatus),
		slog.String("new_status", status),
	)

	return order, nil
}

// ListCustomers aggregates guest orders into per-customer summaries.
func (s *OrderService) ListCustomers(ctx context.Context) ([]domain.CustomerSummary, error) {
	summaries, err := s.orders.GroupByGuestEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	return summaries, nil
}
