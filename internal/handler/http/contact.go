package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velaflam/storefront/internal/service"
	apperrors "github.com/velaflam/storefront/pkg/errors"
	"github.com/velaflam/storefront/pkg/httputil"
	"github.com/velaflam/storefront/pkg/pagination"
	"github.com/velaflam/storefront/pkg/validator"
)

// ContactHandler handles the contact form and its back-office inbox.
type ContactHandler struct {
	service *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact HTTP handler.
func NewContactHandler(svc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		service: svc,
		logger:  logger,
	}
}

// SubmitContactRequest is the JSON request body for the contact form.
type SubmitContactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=1,max=10000"`
}

// SubmitMessage handles POST /api/v1/contact
func (h *ContactHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var req SubmitContactRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	msg, err := h.service.SubmitMessage(r.Context(), service.SubmitContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: msg})
}

// ListMessages handles GET /api/v1/admin/messages
func (h *ContactHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListMessages(r.Context(), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// DeleteMessage handles DELETE /api/v1/admin/messages/{messageID}
func (h *ContactHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")
	if messageID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("messageID is required"), h.logger)
		return
	}

	if err := h.service.DeleteMessage(r.Context(), messageID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}
