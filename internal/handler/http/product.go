package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velaflam/storefront/internal/repository"
	"github.com/velaflam/storefront/internal/service"
	apperrors "github.com/velaflam/storefront/pkg/errors"
	"github.com/velaflam/storefront/pkg/httputil"
	"github.com/velaflam/storefront/pkg/pagination"
	"github.com/velaflam/storefront/pkg/validator"
)

// ProductHandler handles catalog endpoints, both public and back office.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=500"`
	Description   string `json:"description" validate:"max=10000"`
	Price         int64  `json:"price" validate:"gte=0"`
	Category      string `json:"category" validate:"required,min=1,max=100"`
	ImageURL      string `json:"image_url" validate:"omitempty,url"`
	StockQuantity int    `json:"stock_quantity" validate:"gte=0"`
	IsFeatured    bool   `json:"is_featured"`
	IsNewArrival  bool   `json:"is_new_arrival"`
}

// UpdateProductRequest is the JSON request body for updating a product.
// Absent fields are left unchanged.
type UpdateProductRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *int64  `json:"price"`
	Category      *string `json:"category"`
	ImageURL      *string `json:"image_url"`
	StockQuantity *int    `json:"stock_quantity"`
	IsFeatured    *bool   `json:"is_featured"`
	IsNewArrival  *bool   `json:"is_new_arrival"`
}

func productFilterFromRequest(r *http.Request) repository.ProductFilter {
	var filter repository.ProductFilter
	if category := r.URL.Query().Get("category"); category != "" {
		filter.Category = &category
	}
	filter.FeaturedOnly = r.URL.Query().Get("featured") == "true"
	filter.NewArrivals = r.URL.Query().Get("new_arrivals") == "true"
	return filter
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListProducts(r.Context(), productFilterFromRequest(r), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetProduct handles GET /api/v1/products/{productID}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("productID is required"), h.logger)
		return
	}

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /api/v1/admin/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), service.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		IsFeatured:    req.IsFeatured,
		IsNewArrival:  req.IsNewArrival,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/admin/products/{productID}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("productID is required"), h.logger)
		return
	}

	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), productID, service.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		IsFeatured:    req.IsFeatured,
		IsNewArrival:  req.IsNewArrival,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/admin/products/{productID}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("productID is required"), h.logger)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), productID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}
