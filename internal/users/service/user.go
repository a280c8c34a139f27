package service

import (
	"context"
	"errors"

	userserrors "drively/internal/users/errors"
	"drively/internal/users/repository"
	"drively/internal/users/validator"
	"drively/pkg/auth"
	"drively/pkg/config"
	apperrors "drively/pkg/errors"
	"drively/pkg/model"
	"drively/pkg/sanitizer"

	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Signup(ctx context.Context, req *model.UserSignupRequest) (*model.AuthResponse, error)
	Signin(ctx context.Context, req *model.SigninRequest) (*model.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	tokens    *auth.TokenManager
	cfg       *config.Config
}

func NewUserService(repo repository.UserRepository, userValidator *validator.UserValidator, tokens *auth.TokenManager, cfg *config.Config) UserService {
	return &userService{
		repo:      repo,
		validator: userValidator,
		tokens:    tokens,
		cfg:       cfg,
	}
}

func (s *userService) Signup(ctx context.Context, req *model.UserSignupRequest) (*model.AuthResponse, error) {
	req.FirstName = sanitizer.NormalizeName(req.FirstName)
	req.LastName = sanitizer.NormalizeName(req.LastName)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Phone = sanitizer.TrimAndNormalize(req.Phone)

	if err := s.validator.ValidateSignup(req); err != nil {
		return nil, apperrors.Validation("Signup validation failed", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicate) {
			return nil, apperrors.Conflict("Email or phone already registered")
		}
		s.cfg.Log.Error("Failed to create user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to create account", err)
	}

	token, err := s.tokens.Sign(user.ID, auth.RoleUser)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User registered", "id", user.ID, "email", user.Email)
	return &model.AuthResponse{Token: token, User: user}, nil
}

func (s *userService) Signin(ctx context.Context, req *model.SigninRequest) (*model.AuthResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.ValidateSignin(req); err != nil {
		return nil, apperrors.Validation("Signin validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			// Same response as a bad password: no account probing.
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, apperrors.Internal("Failed to sign in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.Sign(user.ID, auth.RoleUser)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User signed in", "id", user.ID)
	return &model.AuthResponse{Token: token, User: user}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Missing principal")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		return nil, apperrors.Internal("Failed to load profile", err)
	}
	return user, nil
}
