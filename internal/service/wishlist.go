package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/internal/repository"
	apperrors "github.com/velaflam/storefront/pkg/errors"
)

// MaxWishlistEntries is the maximum number of products on a single wishlist.
const MaxWishlistEntries = 200

// WishlistItemInput holds the product snapshot for wishlist writes.
type WishlistItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Price     int64  `json:"price" validate:"gte=0"`
	ImageURL  string `json:"image_url"`
}

// WishlistService implements the business logic for wishlist operations.
// The session store is authoritative; the database mirror is written
// best-effort and never read back into the session flow.
type WishlistService struct {
	repo        repository.WishlistRepository
	mirror      repository.WishlistMirror
	logger      *slog.Logger
	wishlistTTL time.Duration
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.WishlistRepository, mirror repository.WishlistMirror, logger *slog.Logger, wishlistTTL time.Duration) *WishlistService {
	return &WishlistService{
		repo:        repo,
		mirror:      mirror,
		logger:      logger,
		wishlistTTL: wishlistTTL,
	}
}

// GetWishlist retrieves the wishlist for a session. A missing or corrupt
// wishlist yields an empty one.
func (s *WishlistService) GetWishlist(ctx context.Context, sessionID string) (*domain.Wishlist, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	return s.loadOrReset(ctx, sessionID)
}

// AddItem puts a product on the session's wishlist. Adding a product that is
// already present is a no-op, never a duplicate.
func (s *WishlistService) AddItem(ctx context.Context, sessionID string, input WishlistItemInput) (*domain.Wishlist, error) {
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

	wl, err := s.loadOrReset(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !wl.Contains(input.ProductID) && len(wl.Items) >= MaxWishlistEntries {
		return nil, apperrors.InvalidInput(fmt.Sprintf("wishlist must not contain more than %d items", MaxWishlistEntries))
	}

	wl.Add(domain.ProductRef{
		ProductID: input.ProductID,
		Name:      input.Name,
		Price:     input.Price,
		ImageURL:  input.ImageURL,
	})

	if err := s.save(ctx, wl); err != nil {
		return nil, err
	}

	s.mirrorAdd(ctx, input.ProductID, sessionID)

	s.logger.InfoContext(ctx, "item added to wishlist",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
	)

	return wl, nil
}

// RemoveItem takes a product off the wishlist. Removing an absent product is
// a no-op.
func (s *WishlistService) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Wishlist, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	wl, err := s.loadOrReset(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	wl.Remove(productID)

	if err := s.save(ctx, wl); err != nil {
		return nil, err
	}

	s.mirrorRemove(ctx, productID, sessionID)

	s.logger.InfoContext(ctx, "item removed from wishlist",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return wl, nil
}

// ToggleItem adds the product if absent, removes it if present. Returns the
// wishlist and whether the product is present after the call.
func (s *WishlistService) ToggleItem(ctx context.Context, sessionID string, input WishlistItemInput) (*domain.Wishlist, bool, error) {
	if sessionID == "" {
		return nil, false, apperrors.InvalidInput("session id is required")
	}
	if input.ProductID == "" {
		return nil, false, apperrors.InvalidInput("product id is required")
	}

	wl, err := s.loadOrReset(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	present := wl.Toggle(domain.ProductRef{
		ProductID: input.ProductID,
		Name:      input.Name,
		Price:     input.Price,
		ImageURL:  input.ImageURL,
	})

	if err := s.save(ctx, wl); err != nil {
		return nil, false, err
	}

	if present {
		s.mirrorAdd(ctx, input.ProductID, sessionID)
	} else {
		s.mirrorRemove(ctx, input.ProductID, sessionID)
	}

	s.logger.InfoContext(ctx, "wishlist item toggled",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
		slog.Bool("present", present),
	)

	return wl, present, nil
}

// ListMirrored returns the product IDs mirrored to the database for a
// session, oldest first. Backs the admin wishlist view; the live session
// store is not consulted.
func (s *WishlistService) ListMirrored(ctx context.Context, sessionID string) ([]string, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	ids, err := s.mirror.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list mirrored wishlist: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}

// ClearWishlist removes every entry from the session's wishlist.
func (s *WishlistService) ClearWishlist(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}

	s.logger.InfoContext(ctx, "wishlist cleared", slog.String("session_id", sessionID))

	return nil
}

func (s *WishlistService) loadOrReset(ctx context.Context, sessionID string) (*domain.Wishlist, error) {
	wl, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewWishlist(sessionID), nil
		}
		if errors.Is(err, repository.ErrCorruptState) {
			s.logger.WarnContext(ctx, "discarding corrupt wishlist state",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
			return domain.NewWishlist(sessionID), nil
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}
	return wl, nil
}

func (s *WishlistService) save(ctx context.Context, wl *domain.Wishlist) error {
	wl.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, wl); err != nil {
		return fmt.Errorf("save wishlist: %w", err)
	}
	return nil
}

// mirrorAdd writes the database mirror row. Mirror failures are logged and
// do not fail the request.
func (s *WishlistService) mirrorAdd(ctx context.Context, productID, sessionID string) {
	if err := s.mirror.Add(ctx, productID, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to mirror wishlist add",
			slog.String("session_id", sessionID),
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *WishlistService) mirrorRemove(ctx context.Context, productID, sessionID string) {
	if err := s.mirror.Remove(ctx, productID, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to mirror wishlist remove",
			slog.String("session_id", sessionID),
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}
