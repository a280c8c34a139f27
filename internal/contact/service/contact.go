package service

import (
	"context"
	"errors"

	contacterrors "drively/internal/contact/errors"
	"drively/internal/contact/repository"
	"drively/pkg/config"
	apperrors "drively/pkg/errors"
	"drively/pkg/model"
	"drively/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

type ContactService interface {
	Create(ctx context.Context, req *model.ContactRequest) (*model.ContactMessage, error)
	GetByID(ctx context.Context, id string) (*model.ContactMessage, error)
	List(ctx context.Context) ([]*model.ContactMessage, error)
	UpdateStatus(ctx context.Context, id string, update *model.ContactStatusUpdate) (*model.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	repo     repository.ContactRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewContactService(repo repository.ContactRepository, cfg *config.Config) ContactService {
	return &contactService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *contactService) Create(ctx context.Context, req *model.ContactRequest) (*model.ContactMessage, error) {
	req.FullName = sanitizer.NormalizeName(req.FullName)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Message = sanitizer.TrimAndNormalize(req.Message)

	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("Contact message validation failed", map[string]any{"error": err.Error()})
	}

	msg := &model.ContactMessage{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Message:  req.Message,
		Status:   model.ContactStatusNew,
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to store contact message", "error", err)
		return nil, apperrors.Internal("Failed to submit message", err)
	}

	s.cfg.Log.Info("Contact message received", "id", msg.ID)
	return msg, nil
}

func (s *contactService) GetByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, id)
	}
	return msg, nil
}

func (s *contactService) List(ctx context.Context) ([]*model.ContactMessage, error) {
	messages, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list contact messages", "error", err)
		return nil, apperrors.Internal("Failed to retrieve messages", err)
	}
	return messages, nil
}

func (s *contactService) UpdateStatus(ctx context.Context, id string, update *model.ContactStatusUpdate) (*model.ContactMessage, error) {
	if err := s.validate.Struct(update); err != nil {
		return nil, apperrors.Validation("Status validation failed", map[string]any{"error": err.Error()})
	}

	msg, err := s.repo.UpdateStatus(ctx, id, update.Status)
	if err != nil {
		return nil, s.mapError(err, id)
	}

	s.cfg.Log.Info("Contact message status updated", "id", id, "status", update.Status)
	return msg, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(err, id)
	}
	s.cfg.Log.Info("Contact message deleted", "id", id)
	return nil
}

func (s *contactService) mapError(err error, id string) error {
	if errors.Is(err, contacterrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Contact message", id)
	}
	if errors.Is(err, contacterrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid contact message ID format")
	}
	return apperrors.Internal("Contact message operation failed", err)
}
