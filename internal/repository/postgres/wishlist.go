package postgres

import (
	"context"
	"fmt"

	"github.com/velaflam/storefront/pkg/database"
)

// WishlistMirror persists wishlist membership rows alongside the Redis copy,
// so saved items are queryable server-side and survive cache eviction.
type WishlistMirror struct {
	pool database.DBTX
}

// NewWishlistMirror creates a new PostgreSQL wishlist mirror.
func NewWishlistMirror(pool database.DBTX) *WishlistMirror {
	return &WishlistMirror{pool: pool}
}

// Add upserts a wishlist row. Re-adding an existing (product, session) pair is
// a no-op, matching the idempotent add semantics of the live wishlist.
func (r *WishlistMirror) Add(ctx context.Context, productID, sessionID string) error {
	query := `
		INSERT INTO wishlist (product_id, session_id, added_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (product_id, session_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, productID, sessionID)
	if err != nil {
		return fmt.Errorf("insert wishlist row: %w", err)
	}
	return nil
}

// Remove deletes the wishlist row for the product and session, if present.
func (r *WishlistMirror) Remove(ctx context.Context, productID, sessionID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM wishlist WHERE product_id = $1 AND session_id = $2`,
		productID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("delete wishlist row: %w", err)
	}
	return nil
}

// ListBySession returns mirrored product IDs for a session, oldest first.
func (r *WishlistMirror) ListBySession(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id FROM wishlist WHERE session_id = $1 ORDER BY added_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("select wishlist rows: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan wishlist row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist rows: %w", err)
	}

	return ids, nil
}
