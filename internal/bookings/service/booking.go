package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "drively/internal/bookings/errors"
	"drively/internal/bookings/repository"
	"drively/internal/bookings/validator"
	"drively/pkg/config"
	apperrors "drively/pkg/errors"
	"drively/pkg/model"
	"drively/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// CarCatalog is the slice of the catalog the booking core consumes:
// active-car resolution at creation time and bulk lookup for joining
// cars onto booking responses.
type CarCatalog interface {
	FindActiveByID(ctx context.Context, id string) (*model.Car, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Car, error)
}

type BookingService interface {
	Create(ctx context.Context, userID string, req *model.BookingRequest) (*model.Booking, error)
	Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error)
	GetMyBookings(ctx context.Context, userID string) ([]*model.BookingWithCar, error)
	GetByID(ctx context.Context, userID, bookingID string) (*model.BookingWithCar, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	catalog   CarCatalog
	validator *validator.BookingValidator
	events    EventPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	catalog CarCatalog,
	bookingValidator *validator.BookingValidator,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		catalog:   catalog,
		validator: bookingValidator,
		events:    events,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, userID string, req *model.BookingRequest) (*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Missing principal")
	}

	req.PickupLocation = sanitizer.NormalizeLocation(req.PickupLocation)

	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	// Validation guarantees the dates parse.
	start, err := ParseRentalDate(req.StartDate)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	end, err := ParseRentalDate(req.EndDate)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if end.Before(start) {
		return nil, apperrors.InvalidInput("End date must be on or after start date")
	}

	days := DaysInclusive(start, end)
	if days < 1 {
		return nil, apperrors.InvalidInput("Invalid booking duration")
	}

	car, err := s.catalog.FindActiveByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	// Serialize creation per car across the overlap check and insert.
	lockID, err := s.acquireCarLock(ctx, car.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseCarLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	quote := ComputeQuote(car.PricePerDay, days, s.cfg.TaxRate)

	booking := &model.Booking{
		UserID:         userID,
		CarID:          car.ID,
		PickupLocation: req.PickupLocation,
		StartDate:      start,
		EndDate:        end,
		PricePerDay:    quote.PricePerDay,
		Days:           quote.Days,
		SubTotal:       quote.SubTotal,
		TaxRate:        quote.TaxRate,
		TaxAmount:      quote.TaxAmount,
		TotalAmount:    quote.TotalAmount,
		Status:         model.StatusConfirmed,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		conflict, err := s.repo.ExistsOverlap(sessCtx, car.ID, start, end)
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}
		if conflict {
			return apperrors.Conflict("Car is already booked for the selected dates")
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
			s.cfg.Log.Error("Failed to create booking", "car_id", car.ID, "error", err)
		}
		return nil, err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"user_id", userID,
		"car_id", car.ID,
		"start_date", start,
		"end_date", end,
		"days", days,
		"total_amount", booking.TotalAmount,
	)

	s.publishEvent(ctx, EventBookingConfirmed, booking)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.CancelOwned(ctx, bookingID, userID)
	if err == nil {
		s.cfg.Log.Info("Booking cancelled", "id", booking.ID, "user_id", userID)
		s.publishEvent(ctx, EventBookingCancelled, booking)
		return booking, nil
	}

	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return nil, apperrors.InvalidInput("Invalid booking ID format")
	}
	if !errors.Is(err, bookingserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	// The conditional update missed: either the booking does not
	// exist for this user, or it is already cancelled.
	existing, findErr := s.repo.FindByIDAndUser(ctx, bookingID, userID)
	if findErr != nil {
		if errors.Is(findErr, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		return nil, apperrors.Internal("Failed to cancel booking", findErr)
	}
	if existing.Status == model.StatusCancelled {
		return nil, apperrors.InvalidState("Booking already cancelled")
	}
	return nil, apperrors.Internal("Failed to cancel booking", err)
}

func (s *bookingService) GetMyBookings(ctx context.Context, userID string) ([]*model.BookingWithCar, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Missing principal")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return s.joinCars(ctx, bookings)
}

func (s *bookingService) GetByID(ctx context.Context, userID, bookingID string) (*model.BookingWithCar, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	joined, err := s.joinCars(ctx, []*model.Booking{booking})
	if err != nil {
		return nil, err
	}
	return joined[0], nil
}

// joinCars attaches car snapshots to bookings. A car deleted from the
// catalog after booking yields a nil Car rather than an error.
func (s *bookingService) joinCars(ctx context.Context, bookings []*model.Booking) ([]*model.BookingWithCar, error) {
	ids := make([]string, 0, len(bookings))
	seen := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if !seen[b.CarID] {
			seen[b.CarID] = true
			ids = append(ids, b.CarID)
		}
	}

	cars := map[string]*model.Car{}
	if len(ids) > 0 {
		var err error
		cars, err = s.catalog.FindByIDs(ctx, ids)
		if err != nil {
			s.cfg.Log.Error("Failed to load cars for bookings", "error", err)
			return nil, apperrors.Internal("Failed to retrieve bookings", err)
		}
	}

	result := make([]*model.BookingWithCar, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, &model.BookingWithCar{
			Booking: *b,
			Car:     cars[b.CarID],
		})
	}
	return result, nil
}

// acquireCarLock takes the per-car advisory lock; a duplicate key
// means another request is mid-booking on the same car.
func (s *bookingService) acquireCarLock(ctx context.Context, carID string) (string, error) {
	lockID := fmt.Sprintf("car_lock_%s", carID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This car is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseCarLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
