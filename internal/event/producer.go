package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/velaflam/storefront/internal/domain"
	pkgkafka "github.com/velaflam/storefront/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicOrderCreated       = "velaflam.order.created"
	TopicOrderStatusChanged = "velaflam.order.status_changed"
	TopicCartUpdated        = "velaflam.cart.updated"
	TopicCartCleared        = "velaflam.cart.cleared"
	TopicReviewSubmitted    = "velaflam.review.submitted"
	TopicContactReceived    = "velaflam.contact.received"
)

// Aggregate type constants.
const (
	AggregateTypeOrder   = "order"
	AggregateTypeCart    = "cart"
	AggregateTypeReview  = "review"
	AggregateTypeContact = "contact"
)

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// OrderCreatedData is the payload for an order.created event (full order snapshot).
type OrderCreatedData struct {
	ID              string          `json:"id"`
	GuestName       string          `json:"guest_name"`
	GuestEmail      string          `json:"guest_email"`
	GuestPhone      string          `json:"guest_phone"`
	ShippingAddress string          `json:"shipping_address"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	Items           []OrderItemData `json:"items"`
	TotalAmount     int64           `json:"total_amount"`
	Notes           string          `json:"notes,omitempty"`
}

// OrderItemData is the event payload for an order line item.
type OrderItemData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string `json:"session_id"`
	ItemCount int    `json:"item_count"`
	Total     int64  `json:"total"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

// ReviewSubmittedData is the payload for a review.submitted event.
type ReviewSubmittedData struct {
	ReviewID   string `json:"review_id"`
	ProductID  string `json:"product_id"`
	Rating     int    `json:"rating"`
	IsApproved bool   `json:"is_approved"`
}

// ContactReceivedData is the payload for a contact.received event.
type ContactReceivedData struct {
	MessageID string `json:"message_id"`
	Email     string `json:"email"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order.created event with the full order snapshot.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	items := make([]OrderItemData, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemData{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}

	data := OrderCreatedData{
		ID:              order.ID,
		GuestName:       order.GuestName,
		GuestEmail:      order.GuestEmail,
		GuestPhone:      order.GuestPhone,
		ShippingAddress: order.ShippingAddress,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		Items:           items,
		TotalAmount:     order.TotalAmount,
		Notes:           order.Notes,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("guest_email", order.GuestEmail),
	)

	return nil
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, orderID, oldStatus, newStatus string) error {
	data := OrderStatusChangedData{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}

	event, err := pkgkafka.NewEvent(TopicOrderStatusChanged, orderID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderStatusChanged, event); err != nil {
		return fmt.Errorf("publish order.status_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.status_changed event",
		slog.String("order_id", orderID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)

	return nil
}

// PublishCartUpdated publishes a cart.updated event with the cart's new shape.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	data := CartUpdatedData{
		SessionID: cart.SessionID,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total(),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.SessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", cart.SessionID),
		slog.Int("item_count", data.ItemCount),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID, reason string) error {
	data := CartClearedData{
		SessionID: sessionID,
		Reason:    reason,
	}

	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
		slog.String("reason", reason),
	)

	return nil
}

// PublishReviewSubmitted publishes a review.submitted event.
func (p *Producer) PublishReviewSubmitted(ctx context.Context, review *domain.Review) error {
	data := ReviewSubmittedData{
		ReviewID:   review.ID,
		ProductID:  review.ProductID,
		Rating:     review.Rating,
		IsApproved: review.IsApproved,
	}

	event, err := pkgkafka.NewEvent(TopicReviewSubmitted, review.ID, AggregateTypeReview, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create review.submitted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewSubmitted, event); err != nil {
		return fmt.Errorf("publish review.submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.submitted event",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)

	return nil
}

// PublishContactReceived publishes a contact.received event.
func (p *Producer) PublishContactReceived(ctx context.Context, msg *domain.ContactMessage) error {
	data := ContactReceivedData{
		MessageID: msg.ID,
		Email:     msg.Email,
	}

	event, err := pkgkafka.NewEvent(TopicContactReceived, msg.ID, AggregateTypeContact, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create contact.received event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicContactReceived, event); err != nil {
		return fmt.Errorf("publish contact.received event: %w", err)
	}

	p.logger.DebugContext(ctx, "published contact.received event",
		slog.String("message_id", msg.ID),
	)

	return nil
}
