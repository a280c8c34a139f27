package service

import (
	"context"
	"io"
	"testing"
	"time"

	adminserrors "drively/internal/admins/errors"
	"drively/pkg/auth"
	"drively/pkg/config"
	apperrors "drively/pkg/errors"
	"drively/pkg/logger"
	"drively/pkg/model"

	"golang.org/x/crypto/bcrypt"
)

type mockAdminRepository struct {
	createFunc      func(ctx context.Context, admin *model.Admin) error
	findByEmailFunc func(ctx context.Context, email string) (*model.Admin, error)
}

func (m *mockAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, admin)
	}
	admin.ID = "66aa1a2b3c4d5e6f7a8b9c01"
	return nil
}

func (m *mockAdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, adminserrors.ErrNotFound
}

func newTestService(repo *mockAdminRepository, signupKey string) AdminService {
	cfg := &config.Config{
		AdminSignupKey: signupKey,
		Log:            logger.New(logger.Config{Output: io.Discard}),
	}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAdminService(repo, tokens, cfg)
}

func validSignup() *model.AdminSignupRequest {
	return &model.AdminSignupRequest{
		Name:      "Grace Hopper",
		Email:     "grace@example.com",
		Password:  "compile the navy",
		SignupKey: "let-me-in",
	}
}

func TestAdminSignup(t *testing.T) {
	var stored *model.Admin
	repo := &mockAdminRepository{
		createFunc: func(ctx context.Context, admin *model.Admin) error {
			admin.ID = "66aa1a2b3c4d5e6f7a8b9c01"
			stored = admin
			return nil
		},
	}
	svc := newTestService(repo, "let-me-in")

	resp, err := svc.Signup(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if stored == nil || stored.Role != auth.RoleAdmin {
		t.Errorf("expected stored admin with ADMIN role, got %+v", stored)
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	principal, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if principal.Role != auth.RoleAdmin {
		t.Errorf("expected ADMIN role claim, got %s", principal.Role)
	}
}

func TestAdminSignupRejectsWrongKey(t *testing.T) {
	svc := newTestService(&mockAdminRepository{}, "let-me-in")

	req := validSignup()
	req.SignupKey = "guess"

	_, err := svc.Signup(context.Background(), req)
	assertErrorCode(t, err, apperrors.CodeForbidden)
}

// An unset signup key disables admin signup entirely rather than
// accepting an empty key.
func TestAdminSignupRejectsUnsetKey(t *testing.T) {
	svc := newTestService(&mockAdminRepository{}, "")

	req := validSignup()
	req.SignupKey = "anything"

	_, err := svc.Signup(context.Background(), req)
	assertErrorCode(t, err, apperrors.CodeForbidden)
}

func TestAdminSignupDuplicate(t *testing.T) {
	repo := &mockAdminRepository{
		createFunc: func(ctx context.Context, admin *model.Admin) error {
			return adminserrors.ErrDuplicate
		},
	}
	svc := newTestService(repo, "let-me-in")

	_, err := svc.Signup(context.Background(), validSignup())
	assertErrorCode(t, err, apperrors.CodeConflict)
}

func TestAdminSignin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("compile the navy"), bcrypt.MinCost)
	repo := &mockAdminRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.Admin, error) {
			if email == "grace@example.com" {
				return &model.Admin{ID: "a1", Email: email, PasswordHash: string(hash), Role: auth.RoleAdmin}, nil
			}
			return nil, adminserrors.ErrNotFound
		},
	}
	svc := newTestService(repo, "let-me-in")

	resp, err := svc.Signin(context.Background(), &model.SigninRequest{
		Email:    "Grace@Example.com",
		Password: "compile the navy",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a signed token")
	}

	_, err = svc.Signin(context.Background(), &model.SigninRequest{
		Email:    "grace@example.com",
		Password: "wrong",
	})
	assertErrorCode(t, err, apperrors.CodeUnauthorized)
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
