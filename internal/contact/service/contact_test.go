package service

import (
	"context"
	"io"
	"testing"

	contacterrors "drively/internal/contact/errors"
	"drively/pkg/config"
	apperrors "drively/pkg/errors"
	"drively/pkg/logger"
	"drively/pkg/model"
)

type mockContactRepository struct {
	createFunc       func(ctx context.Context, msg *model.ContactMessage) error
	findByIDFunc     func(ctx context.Context, id string) (*model.ContactMessage, error)
	findAllFunc      func(ctx context.Context) ([]*model.ContactMessage, error)
	updateStatusFunc func(ctx context.Context, id, status string) (*model.ContactMessage, error)
	deleteFunc       func(ctx context.Context, id string) error
}

func (m *mockContactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, msg)
	}
	msg.ID = "66bb1a2b3c4d5e6f7a8b9c01"
	return nil
}

func (m *mockContactRepository) FindByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, contacterrors.ErrNotFound
}

func (m *mockContactRepository) FindAll(ctx context.Context) ([]*model.ContactMessage, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockContactRepository) UpdateStatus(ctx context.Context, id, status string) (*model.ContactMessage, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil, contacterrors.ErrNotFound
}

func (m *mockContactRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return contacterrors.ErrNotFound
}

func newTestService(repo *mockContactRepository) ContactService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{Output: io.Discard}),
	}
	return NewContactService(repo, cfg)
}

func TestCreateContactMessage(t *testing.T) {
	var stored *model.ContactMessage
	repo := &mockContactRepository{
		createFunc: func(ctx context.Context, msg *model.ContactMessage) error {
			msg.ID = "66bb1a2b3c4d5e6f7a8b9c01"
			stored = msg
			return nil
		},
	}
	svc := newTestService(repo)

	msg, err := svc.Create(context.Background(), &model.ContactRequest{
		FullName: "  Ada   Lovelace ",
		Email:    "Ada@Example.com",
		Message:  "I would like to rent an Electric for a week.",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if msg.Status != model.ContactStatusNew {
		t.Errorf("expected status %s, got %s", model.ContactStatusNew, msg.Status)
	}
	if stored.FullName != "Ada Lovelace" {
		t.Errorf("expected normalized name, got %q", stored.FullName)
	}
	if stored.Email != "ada@example.com" {
		t.Errorf("expected lowercased email, got %q", stored.Email)
	}
}

func TestCreateContactMessageValidation(t *testing.T) {
	svc := newTestService(&mockContactRepository{})

	tests := []struct {
		name string
		req  *model.ContactRequest
	}{
		{"missing name", &model.ContactRequest{Email: "a@b.com", Message: "long enough message"}},
		{"bad email", &model.ContactRequest{FullName: "Ada", Email: "nope", Message: "long enough message"}},
		{"message too short", &model.ContactRequest{FullName: "Ada", Email: "a@b.com", Message: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assertErrorCode(t, err, apperrors.CodeValidation)
		})
	}
}

func TestUpdateContactStatus(t *testing.T) {
	repo := &mockContactRepository{
		updateStatusFunc: func(ctx context.Context, id, status string) (*model.ContactMessage, error) {
			return &model.ContactMessage{ID: id, Status: status}, nil
		},
	}
	svc := newTestService(repo)

	msg, err := svc.UpdateStatus(context.Background(), "66bb1a2b3c4d5e6f7a8b9c01", &model.ContactStatusUpdate{Status: model.ContactStatusResolved})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.Status != model.ContactStatusResolved {
		t.Errorf("expected status resolved, got %s", msg.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), "66bb1a2b3c4d5e6f7a8b9c01", &model.ContactStatusUpdate{Status: "spam"})
	assertErrorCode(t, err, apperrors.CodeValidation)
}

func TestDeleteContactMessage(t *testing.T) {
	svc := newTestService(&mockContactRepository{})

	err := svc.Delete(context.Background(), "66bb1a2b3c4d5e6f7a8b9c01")
	assertErrorCode(t, err, apperrors.CodeNotFound)
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}
