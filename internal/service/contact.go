package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/internal/event"
	"github.com/velaflam/storefront/internal/repository"
	apperrors "github.com/velaflam/storefront/pkg/errors"
	"github.com/velaflam/storefront/pkg/pagination"
)

// SubmitContactInput holds the contact form fields.
type SubmitContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// ContactService implements the contact form and its back-office inbox.
type ContactService struct {
	repo     repository.ContactRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewContactService creates a new contact service.
func NewContactService(repo repository.ContactRepository, producer *event.Producer, logger *slog.Logger) *ContactService {
	return &ContactService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// SubmitMessage stores a contact form submission.
func (s *ContactService) SubmitMessage(ctx context.Context, input SubmitContactInput) (*domain.ContactMessage, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Message == "" {
		return nil, apperrors.InvalidInput("message is required")
	}

	msg := &domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Message:   input.Message,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}

	if err := s.producer.PublishContactReceived(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish contact.received event",
			slog.String("message_id", msg.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "contact message received",
		slog.String("message_id", msg.ID),
	)

	return msg, nil
}

// ListMessages returns a page of contact messages, newest first.
func (s *ContactService) ListMessages(ctx context.Context, params pagination.Params) (pagination.Result[domain.ContactMessage], error) {
	messages, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Result[domain.ContactMessage]{}, fmt.Errorf("list contact messages: %w", err)
	}

	return pagination.NewResult(messages, total, params), nil
}

// DeleteMessage removes a contact message from the inbox.
func (s *ContactService) DeleteMessage(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("message id is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}

	s.logger.InfoContext(ctx, "contact message deleted", slog.String("message_id", id))

	return nil
}
