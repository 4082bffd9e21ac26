package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/internal/repository"
	apperrors "github.com/velaflam/storefront/pkg/errors"
)

// wishlistKeyPrefix mirrors the "flames-wishlist" localStorage key of the web client.
const wishlistKeyPrefix = "flames:wishlist:"

// WishlistRepository implements repository.WishlistRepository using Redis.
type WishlistRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWishlistRepository creates a new Redis-backed wishlist repository.
func NewWishlistRepository(client *redis.Client, ttl time.Duration) *WishlistRepository {
	return &WishlistRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a wishlist by session ID from Redis.
func (r *WishlistRepository) Get(ctx context.Context, sessionID string) (*domain.Wishlist, error) {
	key := wishlistKeyPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("wishlist", sessionID)
		}
		return nil, fmt.Errorf("redis get wishlist: %w", err)
	}

	var wishlist domain.Wishlist
	if err := json.Unmarshal(data, &wishlist); err != nil {
		return nil, fmt.Errorf("unmarshal wishlist %s: %w", sessionID, repository.ErrCorruptState)
	}

	return &wishlist, nil
}

// Save persists a wishlist to Redis with the configured TTL.
func (r *WishlistRepository) Save(ctx context.Context, wishlist *domain.Wishlist) error {
	key := wishlistKeyPrefix + wishlist.SessionID

	data, err := json.Marshal(wishlist)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set wishlist: %w", err)
	}

	return nil
}

// Delete removes a wishlist from Redis by session ID.
func (r *WishlistRepository) Delete(ctx context.Context, sessionID string) error {
	key := wishlistKeyPrefix + sessionID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del wishlist: %w", err)
	}

	return nil
}
