package domain

import "time"

// RoleAdmin is the single back-office role.
const RoleAdmin = "admin"

// AdminUser is a back-office account. PasswordHash is a bcrypt hash and is
// never serialized into responses.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CustomerSummary aggregates guest orders by email for the back-office
// customer view. Guests have no accounts, so email is the grouping key.
type CustomerSummary struct {
	GuestEmail  string    `json:"guest_email"`
	GuestName   string    `json:"guest_name"`
	GuestPhone  string    `json:"guest_phone"`
	OrderCount  int       `json:"order_count"`
	TotalSpent  int64     `json:"total_spent"`
	LastOrderAt time.Time `json:"last_order_at"`
}

// DashboardStats is the aggregate snapshot shown on the admin dashboard.
type DashboardStats struct {
	TotalProducts int     `json:"total_products"`
	TotalOrders   int     `json:"total_orders"`
	PendingOrders int     `json:"pending_orders"`
	TotalRevenue  int64   `json:"total_revenue"`
	TotalReviews  int     `json:"total_reviews"`
	AvgRating     float64 `json:"avg_rating"`
	TotalMessages int     `json:"total_messages"`
}
