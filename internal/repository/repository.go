package repository

import (
	"context"
	"errors"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/pkg/pagination"
)

// ErrCorruptState signals that a persisted cart/wishlist payload could not be
// decoded. Callers recover by resetting to an empty collection; the error is
// logged, never surfaced to the user.
var ErrCorruptState = errors.New("corrupt persisted state")

// CartRepository persists per-session carts (the durable local storage mirror).
type CartRepository interface {
	// Get retrieves the cart for a session. Returns an error wrapping
	// pkg/errors.ErrNotFound when no cart is stored, or ErrCorruptState when
	// the stored payload cannot be decoded.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists the full cart, overwriting any existing one for the session.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart for a session.
	Delete(ctx context.Context, sessionID string) error
}

// WishlistRepository persists per-session wishlists, same discipline as carts.
type WishlistRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.Wishlist, error)
	Save(ctx context.Context, wishlist *domain.Wishlist) error
	Delete(ctx context.Context, sessionID string) error
}

// WishlistMirror is the server-side twin of the wishlist store: one row per
// (product, session) pair, written best-effort for admin visibility. It is
// never read back into the session store.
type WishlistMirror interface {
	Add(ctx context.Context, productID, sessionID string) error
	Remove(ctx context.Context, productID, sessionID string) error
	ListBySession(ctx context.Context, sessionID string) ([]string, error)
}

// OrderRepository persists orders and their line items.
type OrderRepository interface {
	// Create inserts the order header and all line items in one transaction.
	// A failed item insert rolls the header back; partial orders cannot exist.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders newest first with the total count.
	List(ctx context.Context, params pagination.Params) ([]domain.Order, int, error)

	// UpdateStatus sets the order status.
	UpdateStatus(ctx context.Context, id, status string) error

	// GroupByGuestEmail aggregates guest orders into per-customer summaries,
	// sorted by total spent descending.
	GroupByGuestEmail(ctx context.Context) ([]domain.CustomerSummary, error)
}

// ReviewFilter narrows review listings.
type ReviewFilter struct {
	ProductID    *string
	ApprovedOnly bool
	PendingOnly  bool
	Limit        int
}

// ReviewRepository persists product reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]domain.Review, error)
	SetApproval(ctx context.Context, id string, approved bool) error
	Delete(ctx context.Context, id string) error
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category     *string
	FeaturedOnly bool
	NewArrivals  bool
}

// ProductRepository persists catalog products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter, params pagination.Params) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// ContactRepository persists contact-form messages.
type ContactRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) error
	List(ctx context.Context, params pagination.Params) ([]domain.ContactMessage, int, error)
	Delete(ctx context.Context, id string) error
}

// AdminUserRepository persists back-office accounts.
type AdminUserRepository interface {
	Create(ctx context.Context, user *domain.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	List(ctx context.Context) ([]domain.AdminUser, error)
	Count(ctx context.Context) (int, error)
}

// StatsRepository computes dashboard aggregates.
type StatsRepository interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}
