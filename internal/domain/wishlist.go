package domain

import "time"

// Wishlist is a set of product references for a single browser session.
// Same persistence discipline as Cart but entries carry no quantity.
type Wishlist struct {
	SessionID string          `json:"session_id"`
	Items     []WishlistEntry `json:"items"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WishlistEntry is a saved product reference, unique by product ID.
type WishlistEntry struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
}

// NewWishlist creates an empty wishlist for the given session.
func NewWishlist(sessionID string) *Wishlist {
	return &Wishlist{
		SessionID: sessionID,
		Items:     []WishlistEntry{},
		UpdatedAt: time.Now().UTC(),
	}
}

// Add puts a product on the wishlist. Adding an already-present product ID is
// a no-op, never a duplicate.
func (w *Wishlist) Add(ref ProductRef) {
	if w.Contains(ref.ProductID) {
		return
	}
	w.Items = append(w.Items, WishlistEntry{
		ProductID: ref.ProductID,
		Name:      ref.Name,
		Price:     ref.Price,
		ImageURL:  ref.ImageURL,
	})
}

// Remove deletes the entry with the given product ID. No-op if absent.
func (w *Wishlist) Remove(productID string) {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return
		}
	}
}

// Toggle adds the product if absent, otherwise removes it. Returns true if the
// product is present after the call.
func (w *Wishlist) Toggle(ref ProductRef) bool {
	if w.Contains(ref.ProductID) {
		w.Remove(ref.ProductID)
		return false
	}
	w.Add(ref)
	return true
}

// Clear empties the wishlist.
func (w *Wishlist) Clear() {
	w.Items = []WishlistEntry{}
}

// Contains reports whether the wishlist holds the given product ID.
func (w *Wishlist) Contains(productID string) bool {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			return true
		}
	}
	return false
}
