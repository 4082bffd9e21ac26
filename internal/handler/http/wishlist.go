package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velaflam/storefront/internal/service"
	"github.com/velaflam/storefront/internal/session"
	apperrors "github.com/velaflam/storefront/pkg/errors"
	"github.com/velaflam/storefront/pkg/httputil"
	"github.com/velaflam/storefront/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service *service.WishlistService
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: svc,
		logger:  logger,
	}
}

// WishlistItemRequest is the JSON request body for wishlist add and toggle.
type WishlistItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=500"`
	Price     int64  `json:"price" validate:"gte=0"`
	ImageURL  string `json:"image_url"`
}

func (r WishlistItemRequest) toInput() service.WishlistItemInput {
	return service.WishlistItemInput{
		ProductID: r.ProductID,
		Name:      r.Name,
		Price:     r.Price,
		ImageURL:  r.ImageURL,
	}
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	wl, err := h.service.GetWishlist(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wl})
}

// AddItem handles POST /api/v1/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req WishlistItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	wl, err := h.service.AddItem(r.Context(), session.FromContext(r.Context()), req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wl})
}

// ToggleItem handles POST /api/v1/wishlist/toggle
func (h *WishlistHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	var req WishlistItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	wl, present, err := h.service.ToggleItem(r.Context(), session.FromContext(r.Context()), req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"wishlist": wl,
		"present":  present,
	}})
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{productID}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("productID is required"), h.logger)
		return
	}

	wl, err := h.service.RemoveItem(r.Context(), session.FromContext(r.Context()), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wl})
}

// ClearWishlist handles DELETE /api/v1/wishlist
func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearWishlist(r.Context(), session.FromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// ListMirrored handles GET /api/v1/admin/wishlists/{sessionID}
func (h *WishlistHandler) ListMirrored(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("sessionID is required"), h.logger)
		return
	}

	ids, err := h.service.ListMirrored(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"session_id":  sessionID,
		"product_ids": ids,
	}})
}
