package domain

import "time"

// Rating bounds. The domain is closed: values outside [1,5] are a caller error
// and are rejected server-side on every code path.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer product review. Approval is controlled by a single
// named configuration value (reviews require moderation or not), applied
// consistently on creation.
type Review struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Rating        int       `json:"rating"`
	Title         string    `json:"title,omitempty"`
	Comment       string    `json:"comment"`
	IsVerified    bool      `json:"is_verified"`
	IsApproved    bool      `json:"is_approved"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsValidRating reports whether the rating lies in the closed [1,5] domain.
func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
