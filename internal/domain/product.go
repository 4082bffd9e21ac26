package domain

import "time"

// Product is a catalog entry. Prices are integer cents.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"image_url"`
	StockQuantity int       `json:"stock_quantity"`
	IsFeatured    bool      `json:"is_featured"`
	IsNewArrival  bool      `json:"is_new_arrival"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InStock reports whether the product has any units available.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// Ref returns the product reference captured when the product enters a cart
// or wishlist.
func (p *Product) Ref() ProductRef {
	return ProductRef{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
	}
}
