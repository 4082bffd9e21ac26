package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/velaflam/storefront/internal/service"
	apperrors "github.com/velaflam/storefront/pkg/errors"
	"github.com/velaflam/storefront/pkg/httputil"
	"github.com/velaflam/storefront/pkg/validator"
)

// ReviewHandler handles review submission, listing, and moderation endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// SubmitReviewRequest is the JSON request body for submitting a review.
type SubmitReviewRequest struct {
	ProductID     string `json:"product_id" validate:"required"`
	CustomerName  string `json:"customer_name" validate:"required,min=1,max=200"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	Rating        int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title         string `json:"title" validate:"max=200"`
	Comment       string `json:"comment" validate:"required,min=1,max=5000"`
}

// SetApprovalRequest is the JSON request body for review moderation.
type SetApprovalRequest struct {
	Approved bool `json:"approved"`
}

// SubmitReview handles POST /api/v1/reviews
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req SubmitReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.SubmitReview(r.Context(), service.SubmitReviewInput{
		ProductID:     req.ProductID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Rating:        req.Rating,
		Title:         req.Title,
		Comment:       req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// ListProductReviews handles GET /api/v1/products/{productID}/reviews
func (h *ReviewHandler) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("productID is required"), h.logger)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	reviews, err := h.service.ListProductReviews(r.Context(), productID, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// ListAllReviews handles GET /api/v1/admin/reviews
func (h *ReviewHandler) ListAllReviews(w http.ResponseWriter, r *http.Request) {
	pendingOnly := r.URL.Query().Get("pending") == "true"

	reviews, err := h.service.ListAllReviews(r.Context(), pendingOnly)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// SetApproval handles PATCH /api/v1/admin/reviews/{reviewID}/approval
func (h *ReviewHandler) SetApproval(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewID")
	if reviewID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("reviewID is required"), h.logger)
		return
	}

	var req SetApprovalRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.SetApproval(r.Context(), reviewID, req.Approved)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// DeleteReview handles DELETE /api/v1/admin/reviews/{reviewID}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewID")
	if reviewID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("reviewID is required"), h.logger)
		return
	}

	if err := h.service.DeleteReview(r.Context(), reviewID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}
