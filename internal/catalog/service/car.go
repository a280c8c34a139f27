package service

import (
	"context"
	"errors"

	catalogerrors "drively/internal/catalog/errors"
	"drively/internal/catalog/repository"
	"drively/internal/catalog/validator"
	"drively/pkg/config"
	apperrors "drively/pkg/errors"
	"drively/pkg/model"
	"drively/pkg/sanitizer"
)

// CatalogService serves the public car listing and the admin CRUD
// surface. FindActiveByID and FindByIDs are also the read interface
// the booking core consumes.
type CatalogService interface {
	ListActive(ctx context.Context, query *model.CarQuery) ([]*model.Car, error)
	GetActiveByID(ctx context.Context, id string) (*model.Car, error)

	FindActiveByID(ctx context.Context, id string) (*model.Car, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Car, error)

	CreateCar(ctx context.Context, adminID string, req *model.CarRequest) (*model.Car, error)
	UpdateCar(ctx context.Context, id string, update *model.CarUpdate) (*model.Car, error)
	DeleteCar(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*model.Car, error)
}

type catalogService struct {
	repo      repository.CarRepository
	validator *validator.CarValidator
	cfg       *config.Config
}

func NewCatalogService(repo repository.CarRepository, carValidator *validator.CarValidator, cfg *config.Config) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: carValidator,
		cfg:       cfg,
	}
}

func (s *catalogService) ListActive(ctx context.Context, query *model.CarQuery) ([]*model.Car, error) {
	if query == nil {
		query = &model.CarQuery{}
	}

	cars, err := s.repo.FindActive(ctx, query)
	if err != nil {
		s.cfg.Log.Error("Failed to list cars", "error", err)
		return nil, apperrors.Internal("Failed to retrieve cars", err)
	}
	return cars, nil
}

func (s *catalogService) GetActiveByID(ctx context.Context, id string) (*model.Car, error) {
	return s.FindActiveByID(ctx, id)
}

func (s *catalogService) FindActiveByID(ctx context.Context, id string) (*model.Car, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Car ID cannot be empty")
	}

	car, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Car", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid car ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve car", err)
	}
	return car, nil
}

func (s *catalogService) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Car, error) {
	if len(ids) == 0 {
		return map[string]*model.Car{}, nil
	}

	cars, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve cars", err)
	}

	byID := make(map[string]*model.Car, len(cars))
	for _, car := range cars {
		byID[car.ID] = car
	}
	return byID, nil
}

func (s *catalogService) CreateCar(ctx context.Context, adminID string, req *model.CarRequest) (*model.Car, error) {
	req.Title = sanitizer.TrimAndNormalize(req.Title)
	req.Brand = sanitizer.TrimAndNormalize(req.Brand)

	if err := s.validator.ValidateCreate(req); err != nil {
		return nil, apperrors.Validation("Car validation failed", map[string]any{"error": err.Error()})
	}

	car := &model.Car{
		Title:        req.Title,
		Brand:        req.Brand,
		Category:     req.Category,
		PricePerDay:  req.PricePerDay,
		Transmission: req.Transmission,
		FuelType:     req.FuelType,
		Seats:        req.Seats,
		ImageURL:     req.ImageURL,
		IsFeatured:   req.IsFeatured,
		IsActive:     true,
		CreatedBy:    adminID,
	}

	if err := s.repo.Create(ctx, car); err != nil {
		s.cfg.Log.Error("Failed to create car", "title", req.Title, "error", err)
		return nil, apperrors.Internal("Failed to create car", err)
	}

	s.cfg.Log.Info("Car created", "id", car.ID, "title", car.Title, "created_by", adminID)
	return car, nil
}

func (s *catalogService) UpdateCar(ctx context.Context, id string, update *model.CarUpdate) (*model.Car, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Car ID cannot be empty")
	}
	if update == nil || *update == (model.CarUpdate{}) {
		return nil, apperrors.InvalidInput("Update must include at least one field")
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, apperrors.Validation("Car validation failed", map[string]any{"error": err.Error()})
	}

	if update.Title != nil {
		normalized := sanitizer.TrimAndNormalize(*update.Title)
		update.Title = &normalized
	}

	car, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Car", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid car ID format")
		}
		s.cfg.Log.Error("Failed to update car", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update car", err)
	}

	s.cfg.Log.Info("Car updated", "id", car.ID)
	return car, nil
}

func (s *catalogService) DeleteCar(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Car ID cannot be empty")
	}

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Car", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid car ID format")
		}
		s.cfg.Log.Error("Failed to delete car", "id", id, "error", err)
		return apperrors.Internal("Failed to delete car", err)
	}

	s.cfg.Log.Info("Car deleted", "id", id)
	return nil
}

func (s *catalogService) ListAll(ctx context.Context) ([]*model.Car, error) {
	cars, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list all cars", "error", err)
		return nil, apperrors.Internal("Failed to retrieve cars", err)
	}
	return cars, nil
}
