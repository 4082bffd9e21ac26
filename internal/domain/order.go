package domain

import (
	"fmt"
	"time"
)

// Order status constants. The happy path is monotonic:
// pending → confirmed → shipped → delivered. Cancelled is a separate terminal
// state reachable only before shipment.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// PaymentMethodCashOnDelivery is the single supported payment method.
const PaymentMethodCashOnDelivery = "cash_on_delivery"

// Order is a guest order: no registered account, identified only by the
// contact fields captured at checkout.
type Order struct {
	ID              string      `json:"id"`
	GuestName       string      `json:"guest_name"`
	GuestEmail      string      `json:"guest_email"`
	GuestPhone      string      `json:"guest_phone"`
	ShippingAddress string      `json:"shipping_address"`
	Notes           string      `json:"notes,omitempty"`
	TotalAmount     int64       `json:"total_amount"`
	Status          string      `json:"status"`
	PaymentMethod   string      `json:"payment_method"`
	Items           []OrderItem `json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is a line item captured at order time. Price is copied from the
// cart snapshot, never referenced live from the catalog, so historical order
// value does not drift when catalog prices change.
type OrderItem struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// LineTotal returns the total price for this line item.
func (i *OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// FormatShippingAddress flattens street, city, and postal code into the single
// comma-separated string stored on the order.
func FormatShippingAddress(address, city, postalCode string) string {
	return fmt.Sprintf("%s, %s, %s", address, city, postalCode)
}

// ValidOrderStatuses returns all valid order statuses.
func ValidOrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// IsValidOrderStatus checks if a status string is valid.
func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// AllowedOrderTransitions defines which status transitions are valid.
// There is no defined transition back; the happy path only moves forward.
func AllowedOrderTransitions() map[string][]string {
	return map[string][]string{
		OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
		OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:   {OrderStatusDelivered},
		OrderStatusDelivered: {},
		OrderStatusCancelled: {},
	}
}

// CanTransitionTo checks if the order can move to the target status.
func (o *Order) CanTransitionTo(target string) bool {
	allowed, ok := AllowedOrderTransitions()[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}
