package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/internal/event"
	"github.com/velaflam/storefront/internal/repository"
	apperrors "github.com/velaflam/storefront/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single cart item.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct items allowed in a cart.
	MaxItemsPerCart = 50
	// MaxPriceCents is the maximum price in cents (100,000.00) allowed per item.
	MaxPriceCents = 100_000_00
)

// AddCartItemInput holds the parameters for adding a product to the cart.
// Quantity is not a parameter: adding always contributes exactly one unit,
// merging into the existing line when the product is already present.
type AddCartItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Price     int64  `json:"price" validate:"gte=0"`
	ImageURL  string `json:"image_url"`
}

// UpdateCartQuantityInput holds the parameters for setting an item quantity.
type UpdateCartQuantityInput struct {
	Quantity int `json:"quantity"`
}

// CartService implements the business logic for cart operations.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
	cartTTL  time.Duration
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger, cartTTL time.Duration) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
		cartTTL:  cartTTL,
	}
}

// GetCart retrieves the cart for a session. A missing cart yields an empty
// one; a corrupt stored payload is discarded and replaced with an empty cart
// rather than failing the request.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	return s.loadOrReset(ctx, sessionID)
}

// AddItem adds one unit of a product to the session's cart. If the product is
// already present its quantity is increased by one; the stored price and
// display fields are kept as they were first captured.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddCartItemInput) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.Price > MaxPriceCents {
		return nil, apperrors.InvalidInput(fmt.Sprintf("price must not exceed %d cents", MaxPriceCents))
	}

	cart, err := s.loadOrReset(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !cart.Contains(input.ProductID) && len(cart.Items) >= MaxItemsPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
	}

	cart.Add(domain.ProductRef{
		ProductID: input.ProductID,
		Name:      input.Name,
		Price:     input.Price,
		ImageURL:  input.ImageURL,
	})

	for i := range cart.Items {
		if cart.Items[i].ProductID == input.ProductID && cart.Items[i].Quantity > MaxQuantityPerItem {
			return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
		}
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
	)

	return cart, nil
}

// UpdateQuantity sets the quantity of a cart line verbatim. Zero or negative
// removes the line. Updating a product that is not in the cart is a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	cart, err := s.loadOrReset(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.UpdateQuantity(productID, quantity)

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem removes a product from the cart. Removing an absent product is a
// no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.loadOrReset(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.Remove(productID)

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// ClearCart removes every item from the session's cart.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID, "user_cleared"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("session_id", sessionID))

	return nil
}

// loadOrReset fetches the session cart, treating both a missing cart and a
// corrupt payload as an empty cart. Corruption is logged; the user just sees
// an empty cart.
func (s *CartService) loadOrReset(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(sessionID), nil
		}
		if errors.Is(err, repository.ErrCorruptState) {
			s.logger.WarnContext(ctx, "discarding corrupt cart state",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
			return domain.NewCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}
