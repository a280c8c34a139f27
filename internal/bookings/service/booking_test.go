package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	bookingserrors "drively/internal/bookings/errors"
	"drively/internal/bookings/validator"
	"drively/pkg/config"
	apperrors "drively/pkg/errors"
	"drively/pkg/kafka"
	"drively/pkg/logger"
	"drively/pkg/model"

	mongotx "drively/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	testUserID = "661f1a2b3c4d5e6f7a8b9c01"
	testCarID  = "64f1a2b3c4d5e6f7a8b9c0d1"
)

type mockBookingRepository struct {
	createFunc          func(ctx context.Context, booking *model.Booking) error
	findByIDAndUserFunc func(ctx context.Context, id, userID string) (*model.Booking, error)
	findByUserFunc      func(ctx context.Context, userID string) ([]*model.Booking, error)
	existsOverlapFunc   func(ctx context.Context, carID string, start, end time.Time) (bool, error)
	cancelOwnedFunc     func(ctx context.Context, id, userID string) (*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "68a0b1c2d3e4f5a6b7c8d9e0"
	return nil
}

func (m *mockBookingRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*model.Booking, error) {
	if m.findByIDAndUserFunc != nil {
		return m.findByIDAndUserFunc(ctx, id, userID)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockBookingRepository) ExistsOverlap(ctx context.Context, carID string, start, end time.Time) (bool, error) {
	if m.existsOverlapFunc != nil {
		return m.existsOverlapFunc(ctx, carID, start, end)
	}
	return false, nil
}

func (m *mockBookingRepository) CancelOwned(ctx context.Context, id, userID string) (*model.Booking, error) {
	if m.cancelOwnedFunc != nil {
		return m.cancelOwnedFunc(ctx, id, userID)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	mu   sync.Mutex
	held map[string]bool

	createFunc func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
}

func newMockLockRepository() *mockLockRepository {
	return &mockLockRepository{held: make(map[string]bool)}
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[lock.ID] {
		return nil, duplicateKeyError()
	}
	m.held[lock.ID] = true
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, lockID)
	return nil
}

// duplicateKeyError mirrors the server response for a unique index
// violation, which is what a contended lock insert produces.
func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
}

type mockCarCatalog struct {
	findActiveByIDFunc func(ctx context.Context, id string) (*model.Car, error)
	findByIDsFunc      func(ctx context.Context, ids []string) (map[string]*model.Car, error)
}

func (m *mockCarCatalog) FindActiveByID(ctx context.Context, id string) (*model.Car, error) {
	if m.findActiveByIDFunc != nil {
		return m.findActiveByIDFunc(ctx, id)
	}
	return testCar(), nil
}

func (m *mockCarCatalog) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Car, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	return map[string]*model.Car{testCarID: testCar()}, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) byType(eventType string) []kafka.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []kafka.Message
	for _, m := range p.messages {
		if m.Headers[kafka.HeaderEventType] == eventType {
			out = append(out, m)
		}
	}
	return out
}

func testCar() *model.Car {
	return &model.Car{
		ID:          testCarID,
		Title:       "BMW X5",
		Category:    model.CategorySUV,
		PricePerDay: 100,
		IsActive:    true,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		TaxRate:        0.10,
		BookingLockTTL: time.Minute,
		Log:            logger.New(logger.Config{Output: io.Discard}),
	}
}

func newTestService(repo *mockBookingRepository, locks *mockLockRepository, catalog *mockCarCatalog, events EventPublisher) BookingService {
	cfg := testConfig()
	return NewBookingService(repo, locks, catalog, validator.NewBookingValidator(cfg.Log), events, cfg)
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		CarID:          testCarID,
		PickupLocation: "Berlin Airport",
		StartDate:      "2026-01-05",
		EndDate:        "2026-01-06",
	}
}

func TestCreateBooking(t *testing.T) {
	events := &recordingPublisher{}
	svc := newTestService(&mockBookingRepository{}, newMockLockRepository(), &mockCarCatalog{}, events)

	booking, err := svc.Create(context.Background(), testUserID, validRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected status %s, got %s", model.StatusConfirmed, booking.Status)
	}
	if booking.Days != 2 {
		t.Errorf("expected 2 days, got %d", booking.Days)
	}
	if booking.SubTotal != 200 {
		t.Errorf("expected sub total 200, got %g", booking.SubTotal)
	}
	if booking.TaxAmount != 20 {
		t.Errorf("expected tax amount 20, got %g", booking.TaxAmount)
	}
	if booking.TotalAmount != 220 {
		t.Errorf("expected total amount 220, got %g", booking.TotalAmount)
	}
	if booking.TaxRate != 0.10 {
		t.Errorf("expected tax rate 0.10, got %g", booking.TaxRate)
	}

	wantStart := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if !booking.StartDate.Equal(wantStart) {
		t.Errorf("expected start date %v, got %v", wantStart, booking.StartDate)
	}
	if loc := booking.StartDate.Location(); loc != time.UTC {
		t.Errorf("expected UTC start date, got location %v", loc)
	}

	confirmed := events.byType(EventBookingConfirmed)
	if len(confirmed) != 1 {
		t.Fatalf("expected 1 confirmed event, got %d", len(confirmed))
	}
	var payload BookingEvent
	if err := confirmed[0].DecodeValue(&payload); err != nil {
		t.Fatalf("failed to decode event payload: %v", err)
	}
	if payload.BookingID != booking.ID || payload.Status != model.StatusConfirmed {
		t.Errorf("unexpected event payload: %+v", payload)
	}
}

func TestCreateBookingSingleDay(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, newMockLockRepository(), &mockCarCatalog{}, nil)

	req := validRequest()
	req.StartDate = "2026-01-05"
	req.EndDate = "2026-01-05"

	booking, err := svc.Create(context.Background(), testUserID, req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if booking.Days != 1 {
		t.Errorf("expected 1 day, got %d", booking.Days)
	}
	if booking.TotalAmount != 110 {
		t.Errorf("expected total amount 110, got %g", booking.TotalAmount)
	}
}

func TestCreateBookingNormalizesTimeOfDay(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, newMockLockRepository(), &mockCarCatalog{}, nil)

	req := validRequest()
	req.StartDate = "2026-01-05T14:30:00Z"
	req.EndDate = "2026-01-05T23:59:00Z"

	booking, err := svc.Create(context.Background(), testUserID, req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if booking.Days != 1 {
		t.Errorf("expected 1 day after midnight normalization, got %d", booking.Days)
	}
	if hour := booking.StartDate.Hour(); hour != 0 {
		t.Errorf("expected midnight start date, got hour %d", hour)
	}
}

func TestCreateBookingEndBeforeStart(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, newMockLockRepository(), &mockCarCatalog{}, nil)

	req := validRequest()
	req.StartDate = "2026-01-06"
	req.EndDate = "2026-01-05"

	_, err := svc.Create(context.Background(), testUserID, req)
	assertErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestCreateBookingValidationFailure(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, newMockLockRepository(), &mockCarCatalog{}, nil)

	tests := []struct {
		name   string
		mutate func(req *model.BookingRequest)
	}{
		{"missing car id", func(req *model.BookingRequest) { req.CarID = "" }},
		{"malformed car id", func(req *model.BookingRequest) { req.CarID = "not-an-object-id" }},
		{"missing pickup location", func(req *model.BookingRequest) { req.PickupLocation = "" }},
		{"pickup location too short", func(req *model.BookingRequest) { req.PickupLocation = "x" }},
		{"missing start date", func(req *model.BookingRequest) { req.StartDate = "" }},
		{"unparseable end date", func(req *model.BookingRequest) { req.EndDate = "06/01/2026" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), testUserID, req)
			assertErrorCode(t, err, apperrors.CodeValidation)
		})
	}
}

func TestCreateBookingCarNotFound(t *testing.T) {
	catalog := &mockCarCatalog{
		findActiveByIDFunc: func(ctx context.Context, id string) (*model.Car, error) {
			return nil, apperrors.NotFoundWithID("Car", id)
		},
	}
	svc := newTestService(&mockBookingRepository{}, newMockLockRepository(), catalog, nil)

	_, err := svc.Create(context.Background(), testUserID, validRequest())
	assertErrorCode(t, err, apperrors.CodeNotFound)
}

func TestCreateBookingOverlapConflict(t *testing.T) {
	repo := &mockBookingRepository{
		existsOverlapFunc: func(ctx context.Context, carID string, start, end time.Time) (bool, error) {
			return true, nil
		},
	}
	events := &recordingPublisher{}
	svc := newTestService(repo, newMockLockRepository(), &mockCarCatalog{}, events)

	_, err := svc.Create(context.Background(), testUserID, validRequest())
	assertErrorCode(t, err, apperrors.CodeConflict)

	if len(events.byType(EventBookingConfirmed)) != 0 {
		t.Error("expected no event on conflicting booking")
	}
}

// Bookings are inclusive on both ends: [Jan 5, Jan 6] blocks Jan 6
// but not Jan 7.
func TestCreateBookingBoundaryDates(t *testing.T) {
	existingStart := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	existingEnd := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)

	repo := &mockBookingRepository{
		existsOverlapFunc: func(ctx context.Context, carID string, start, end time.Time) (bool, error) {
			overlap := !existingStart.After(end) && !start.After(existingEnd)
			return overlap, nil
		},
	}
	svc := newTestService(repo, newMockLockRepository(), &mockCarCatalog{}, nil)

	tests := []struct {
		name     string
		start    string
		end      string
		wantCode string
	}{
		{"shared end date conflicts", "2026-01-06", "2026-01-07", apperrors.CodeConflict},
		{"fully contained conflicts", "2026-01-05", "2026-01-05", apperrors.CodeConflict},
		{"adjacent next day allowed", "2026-01-07", "2026-01-08", ""},
		{"adjacent previous day allowed", "2026-01-03", "2026-01-04", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.StartDate = tt.start
			req.EndDate = tt.end

			_, err := svc.Create(context.Background(), testUserID, req)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			assertErrorCode(t, err, tt.wantCode)
		})
	}
}

// Cancelled bookings do not block the car: their date range is open
// for new bookings again.
func TestCreateBookingCancelledRangeAvailable(t *testing.T) {
	repo := &inMemoryBookingRepository{
		bookings: []*model.Booking{
			{
				ID:        "68a0b1c2d3e4f5a6b7c8d9ff",
				CarID:     testCarID,
				UserID:    "someone-else",
				Status:    model.StatusCancelled,
				StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
			},
		},
	}
	cfg := testConfig()
	svc := NewBookingService(repo, newMockLockRepository(), &mockCarCatalog{}, validator.NewBookingValidator(cfg.Log), nil, cfg)

	booking, err := svc.Create(context.Background(), testUserID, validRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected status %s, got %s", model.StatusConfirmed, booking.Status)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.bookings) != 2 {
		t.Errorf("expected the new booking to be stored alongside the cancelled one, got %d bookings", len(repo.bookings))
	}
}

func TestCreateBookingLockContention(t *testing.T) {
	locks := newMockLockRepository()
	locks.createFunc = func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
		return nil, duplicateKeyError()
	}
	svc := newTestService(&mockBookingRepository{}, locks, &mockCarCatalog{}, nil)

	_, err := svc.Create(context.Background(), testUserID, validRequest())
	assertErrorCode(t, err, apperrors.CodeConflict)
}

func TestCreateBookingReleasesLock(t *testing.T) {
	locks := newMockLockRepository()
	svc := newTestService(&mockBookingRepository{}, locks, &mockCarCatalog{}, nil)

	if _, err := svc.Create(context.Background(), testUserID, validRequest()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	locks.mu.Lock()
	defer locks.mu.Unlock()
	if len(locks.held) != 0 {
		t.Errorf("expected all locks released, still held: %v", locks.held)
	}
}

// inMemoryBookingRepository is a stateful fake for concurrency tests:
// the advisory lock is the only thing serializing check-then-insert.
type inMemoryBookingRepository struct {
	mockBookingRepository

	mu       sync.Mutex
	bookings []*model.Booking
}

func (r *inMemoryBookingRepository) ExistsOverlap(_ context.Context, carID string, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.CarID != carID || b.Status == model.StatusCancelled {
			continue
		}
		if !b.StartDate.After(end) && !start.After(b.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryBookingRepository) Create(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.ID = "68a0b1c2d3e4f5a6b7c8d9e0"
	copied := *booking
	r.bookings = append(r.bookings, &copied)
	return nil
}

func TestConcurrentCreateSameCar(t *testing.T) {
	repo := &inMemoryBookingRepository{}
	cfg := testConfig()
	svc := NewBookingService(repo, newMockLockRepository(), &mockCarCatalog{}, validator.NewBookingValidator(cfg.Log), nil, cfg)

	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), testUserID, validRequest())
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperrors.AsAppError(err).Code == apperrors.CodeConflict:
			conflicted++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("expected exactly 1 booking to succeed, got %d", succeeded)
	}
	if succeeded+conflicted != attempts {
		t.Errorf("expected %d total outcomes, got %d success + %d conflict", attempts, succeeded, conflicted)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.bookings) != 1 {
		t.Errorf("expected exactly 1 stored booking, got %d", len(repo.bookings))
	}
}

func TestCancelBooking(t *testing.T) {
	bookingID := "68a0b1c2d3e4f5a6b7c8d9e0"
	events := &recordingPublisher{}

	repo := &mockBookingRepository{
		cancelOwnedFunc: func(ctx context.Context, id, userID string) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: userID, Status: model.StatusCancelled}, nil
		},
	}
	svc := newTestService(repo, newMockLockRepository(), &mockCarCatalog{}, events)

	booking, err := svc.Cancel(context.Background(), testUserID, bookingID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if booking.Status != model.StatusCancelled {
		t.Errorf("expected status %s, got %s", model.StatusCancelled, booking.Status)
	}
	if len(events.byType(EventBookingCancelled)) != 1 {
		t.Error("expected a cancelled event")
	}
}

func TestCancelBookingAlreadyCancelled(t *testing.T) {
	bookingID := "68a0b1c2d3e4f5a6b7c8d9e0"

	repo := &mockBookingRepository{
		cancelOwnedFunc: func(ctx context.Context, id, userID string) (*model.Booking, error) {
			return nil, bookingserrors.ErrNotFound
		},
		findByIDAndUserFunc: func(ctx context.Context, id, userID string) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: userID, Status: model.StatusCancelled}, nil
		},
	}
	svc := newTestService(repo, newMockLockRepository(), &mockCarCatalog{}, nil)

	_, err := svc.Cancel(context.Background(), testUserID, bookingID)
	assertErrorCode(t, err, apperrors.CodeInvalidState)
}

func TestCancelBookingNotFound(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, newMockLockRepository(), &mockCarCatalog{}, nil)

	_, err := svc.Cancel(context.Background(), testUserID, "68a0b1c2d3e4f5a6b7c8d9e0")
	assertErrorCode(t, err, apperrors.CodeNotFound)
}

func TestCancelBookingInvalidID(t *testing.T) {
	repo := &mockBookingRepository{
		cancelOwnedFunc: func(ctx context.Context, id, userID string) (*model.Booking, error) {
			return nil, bookingserrors.ErrInvalidID
		},
	}
	svc := newTestService(repo, newMockLockRepository(), &mockCarCatalog{}, nil)

	_, err := svc.Cancel(context.Background(), testUserID, "garbage")
	assertErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestGetMyBookings(t *testing.T) {
	orphanCarID := "64aaaaaaaaaaaaaaaaaaaaaa"

	repo := &mockBookingRepository{
		findByUserFunc: func(ctx context.Context, userID string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "b1", UserID: userID, CarID: testCarID},
				{ID: "b2", UserID: userID, CarID: orphanCarID},
			}, nil
		},
	}
	svc := newTestService(repo, newMockLockRepository(), &mockCarCatalog{}, nil)

	bookings, err := svc.GetMyBookings(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	if bookings[0].Car == nil || bookings[0].Car.ID != testCarID {
		t.Error("expected first booking joined with its car")
	}
	if bookings[1].Car != nil {
		t.Error("expected nil car for a booking whose car is gone")
	}
}

func TestGetBookingByID(t *testing.T) {
	bookingID := "68a0b1c2d3e4f5a6b7c8d9e0"

	repo := &mockBookingRepository{
		findByIDAndUserFunc: func(ctx context.Context, id, userID string) (*model.Booking, error) {
			if id != bookingID || userID != testUserID {
				return nil, bookingserrors.ErrNotFound
			}
			return &model.Booking{ID: id, UserID: userID, CarID: testCarID}, nil
		},
	}
	svc := newTestService(repo, newMockLockRepository(), &mockCarCatalog{}, nil)

	booking, err := svc.GetByID(context.Background(), testUserID, bookingID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if booking.Car == nil {
		t.Error("expected car joined onto booking")
	}

	_, err = svc.GetByID(context.Background(), "661f000000000000000000ff", bookingID)
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
