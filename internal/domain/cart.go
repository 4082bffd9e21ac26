package domain

import "time"

// ProductRef captures the catalog values for a product at the moment it is
// added to a cart or wishlist. The values are trusted as given; they are not
// re-validated against the live catalog afterwards.
type ProductRef struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
}

// Cart is the shopping cart for a single browser session. It is the
// authoritative client-side state container: one logical writer, no
// server-side representation until checkout.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one product-quantity pairing inside the cart, unique by product ID.
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
	Quantity  int    `json:"quantity"`
}

// NewCart creates an empty cart for the given session.
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     []CartItem{},
		UpdatedAt: time.Now().UTC(),
	}
}

// Add puts a product in the cart. If an item with the same product ID exists
// its quantity is incremented by one; otherwise a new item with quantity 1 is
// appended. No stock-availability check happens here; the catalog page
// enforces stock limits before calling in.
func (c *Cart) Add(ref ProductRef) {
	for i := range c.Items {
		if c.Items[i].ProductID == ref.ProductID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, CartItem{
		ProductID: ref.ProductID,
		Name:      ref.Name,
		Price:     ref.Price,
		ImageURL:  ref.ImageURL,
		Quantity:  1,
	})
}

// UpdateQuantity sets the quantity of an item verbatim. A quantity of zero or
// less removes the item entirely. Unknown product IDs are a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return
		}
	}
}

// Remove deletes the item with the given product ID. No-op if absent.
func (c *Cart) Remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// Total returns Σ(price × quantity) over all items, in cents. Recomputed on
// every call, never cached.
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the total number of units in the cart.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Contains reports whether the cart holds an item with the given product ID.
func (c *Cart) Contains(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return true
		}
	}
	return false
}
