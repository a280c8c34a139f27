package service

import (
	"context"
	"crypto/subtle"
	"errors"

	adminserrors "drively/internal/admins/errors"
	"drively/internal/admins/repository"
	"drively/pkg/auth"
	"drively/pkg/config"
	apperrors "drively/pkg/errors"
	"drively/pkg/model"
	"drively/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type AdminService interface {
	Signup(ctx context.Context, req *model.AdminSignupRequest) (*model.AuthResponse, error)
	Signin(ctx context.Context, req *model.SigninRequest) (*model.AuthResponse, error)
}

type adminService struct {
	repo     repository.AdminRepository
	validate *validator.Validate
	tokens   *auth.TokenManager
	cfg      *config.Config
}

func NewAdminService(repo repository.AdminRepository, tokens *auth.TokenManager, cfg *config.Config) AdminService {
	return &adminService{
		repo:     repo,
		validate: validator.New(),
		tokens:   tokens,
		cfg:      cfg,
	}
}

// Signup is gated by the shared signup key from configuration so
// admin accounts cannot be self-provisioned through the public API.
func (s *adminService) Signup(ctx context.Context, req *model.AdminSignupRequest) (*model.AuthResponse, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("Admin signup validation failed", map[string]any{"error": err.Error()})
	}

	if s.cfg.AdminSignupKey == "" ||
		subtle.ConstantTimeCompare([]byte(req.SignupKey), []byte(s.cfg.AdminSignupKey)) != 1 {
		s.cfg.Log.Warn("Admin signup rejected", "email", req.Email)
		return nil, apperrors.Forbidden("Invalid signup key")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	admin := &model.Admin{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         auth.RoleAdmin,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, adminserrors.ErrDuplicate) {
			return nil, apperrors.Conflict("Email already registered")
		}
		s.cfg.Log.Error("Failed to create admin", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to create account", err)
	}

	token, err := s.tokens.Sign(admin.ID, auth.RoleAdmin)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("Admin registered", "id", admin.ID, "email", admin.Email)
	return &model.AuthResponse{Token: token, User: admin}, nil
}

func (s *adminService) Signin(ctx context.Context, req *model.SigninRequest) (*model.AuthResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("Signin validation failed", map[string]any{"error": err.Error()})
	}

	admin, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, adminserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, apperrors.Internal("Failed to sign in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.Sign(admin.ID, auth.RoleAdmin)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("Admin signed in", "id", admin.ID)
	return &model.AuthResponse{Token: token, User: admin}, nil
}
