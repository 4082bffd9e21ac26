package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/internal/repository"
	apperrors "github.com/velaflam/storefront/pkg/errors"
)

func setupCartRepo(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCartRepository(client, 24*time.Hour), mr
}

func sampleCart() *domain.Cart {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Cart{
		SessionID: "guest_abc123_1700000000000",
		Items: []domain.CartItem{
			{ProductID: "prod-1", Name: "Widget", Price: 1000, Quantity: 2},
			{ProductID: "prod-2", Name: "Gadget", Price: 550, Quantity: 1},
		},
		UpdatedAt: now,
	}
}

func TestCartRepository_Get_Success(t *testing.T) {
	repo, mr := setupCartRepo(t)

	cart := sampleCart()
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	require.NoError(t, mr.Set("flames:cart:"+cart.SessionID, string(data)))

	got, err := repo.Get(context.Background(), cart.SessionID)
	require.NoError(t, err)
	assert.Equal(t, cart.SessionID, got.SessionID)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, int64(2550), got.Total())
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	repo, _ := setupCartRepo(t)

	_, err := repo.Get(context.Background(), "guest_missing_0")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRepository_Get_CorruptPayload(t *testing.T) {
	repo, mr := setupCartRepo(t)

	require.NoError(t, mr.Set("flames:cart:guest_bad_0", "{not json"))

	_, err := repo.Get(context.Background(), "guest_bad_0")
	assert.ErrorIs(t, err, repository.ErrCorruptState)
}

func TestCartRepository_SaveThenGet(t *testing.T) {
	repo, mr := setupCartRepo(t)

	cart := sampleCart()
	require.NoError(t, repo.Save(context.Background(), cart))

	got, err := repo.Get(context.Background(), cart.SessionID)
	require.NoError(t, err)
	assert.Equal(t, cart.Items, got.Items)

	// TTL applied on save.
	ttl := mr.TTL("flames:cart:" + cart.SessionID)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestCartRepository_Delete(t *testing.T) {
	repo, _ := setupCartRepo(t)

	cart := sampleCart()
	require.NoError(t, repo.Save(context.Background(), cart))
	require.NoError(t, repo.Delete(context.Background(), cart.SessionID))

	_, err := repo.Get(context.Background(), cart.SessionID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRepository_Delete_AbsentNoop(t *testing.T) {
	repo, _ := setupCartRepo(t)
	assert.NoError(t, repo.Delete(context.Background(), "guest_missing_0"))
}
