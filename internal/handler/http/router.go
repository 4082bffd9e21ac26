package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velaflam/storefront/internal/auth"
	"github.com/velaflam/storefront/internal/service"
	"github.com/velaflam/storefront/internal/session"
	"github.com/velaflam/storefront/pkg/health"
	"github.com/velaflam/storefront/pkg/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	CartService     *service.CartService
	WishlistService *service.WishlistService
	OrderService    *service.OrderService
	ReviewService   *service.ReviewService
	ProductService  *service.ProductService
	ContactService  *service.ContactService
	AdminService    *service.AdminService
	JWTManager      *auth.JWTManager
	HealthHandler   *health.Handler
	Logger          *slog.Logger

	RequestTimeout   time.Duration
	SessionCookieTTL time.Duration
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(deps.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(deps.CartService, logger)
	wishlistHandler := NewWishlistHandler(deps.WishlistService, logger)
	orderHandler := NewOrderHandler(deps.OrderService, logger)
	reviewHandler := NewReviewHandler(deps.ReviewService, logger)
	productHandler := NewProductHandler(deps.ProductService, logger)
	contactHandler := NewContactHandler(deps.ContactService, logger)
	adminHandler := NewAdminHandler(deps.AdminService, logger)

	validateToken := func(token string) (*middleware.Claims, error) {
		claims, err := deps.JWTManager.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			AdminID: claims.AdminID,
			Email:   claims.Email,
			Role:    claims.Role,
		}, nil
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Storefront routes: every request gets a session cookie.
		r.Group(func(r chi.Router) {
			r.Use(session.Middleware(deps.SessionCookieTTL))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productID}", cartHandler.UpdateItemQuantity)
				r.Delete("/items/{productID}", cartHandler.RemoveItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.GetWishlist)
				r.Delete("/", wishlistHandler.ClearWishlist)
				r.Post("/items", wishlistHandler.AddItem)
				r.Post("/toggle", wishlistHandler.ToggleItem)
				r.Delete("/items/{productID}", wishlistHandler.RemoveItem)
			})

			r.Post("/checkout", orderHandler.Checkout)
		})

		// Public catalog and forms, no session required. Orders are readable
		// by ID for the post-checkout confirmation view.
		r.Get("/orders/{orderID}", orderHandler.GetOrder)
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{productID}", productHandler.GetProduct)
		r.Get("/products/{productID}/reviews", reviewHandler.ListProductReviews)
		r.Post("/reviews", reviewHandler.SubmitReview)
		r.Post("/contact", contactHandler.SubmitMessage)

		// Back office
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(validateToken))
				r.Use(middleware.RequireRole("admin"))

				r.Get("/stats", adminHandler.DashboardStats)
				r.Get("/customers", orderHandler.ListCustomers)
				r.Get("/wishlists/{sessionID}", wishlistHandler.ListMirrored)

				r.Get("/orders", orderHandler.ListOrders)
				r.Get("/orders/{orderID}", orderHandler.GetOrder)
				r.Patch("/orders/{orderID}/status", orderHandler.UpdateStatus)

				r.Get("/reviews", reviewHandler.ListAllReviews)
				r.Patch("/reviews/{reviewID}/approval", reviewHandler.SetApproval)
				r.Delete("/reviews/{reviewID}", reviewHandler.DeleteReview)

				r.Post("/products", productHandler.CreateProduct)
				r.Put("/products/{productID}", productHandler.UpdateProduct)
				r.Delete("/products/{productID}", productHandler.DeleteProduct)

				r.Get("/messages", contactHandler.ListMessages)
				r.Delete("/messages/{messageID}", contactHandler.DeleteMessage)

				r.Get("/users", adminHandler.ListAdmins)
				r.Post("/users", adminHandler.CreateAdmin)
			})
		})
	})

	return r
}
