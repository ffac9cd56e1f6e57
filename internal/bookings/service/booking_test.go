package service

import (
	"context"
	"sync"
	"testing"

	bookingserrors "github.com/zermoser/mos-e-form/internal/bookings/errors"
	"github.com/zermoser/mos-e-form/internal/bookings/repository"
	"github.com/zermoser/mos-e-form/internal/bookings/validator"
	"github.com/zermoser/mos-e-form/pkg/config"
	apperrors "github.com/zermoser/mos-e-form/pkg/errors"
	"github.com/zermoser/mos-e-form/pkg/logger"
	"github.com/zermoser/mos-e-form/pkg/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Rooms:    []string{"Room A", "Room B", "Room C"},
		DayStart: "08:00",
		DayEnd:   "18:00",
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newTestService() BookingService {
	cfg := testConfig()
	return NewBookingService(
		repository.NewMemoryBookingRepository(),
		repository.NewMemorySlotLockRepository(),
		validator.NewBookingValidator(cfg),
		nil,
		cfg,
	)
}

func newBooking(room, date, start, end string) *model.Booking {
	return &model.Booking{
		Room:        room,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		RequestedBy: "Thanawat Pattana",
		Purpose:     "Team meeting",
	}
}

func conflictReason(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	reason, _ := appErr.Details["reason"].(string)
	return reason
}

func TestCheckAvailabilityMissingSelection(t *testing.T) {
	svc := newTestService()

	cases := [][4]string{
		{"", "2025-07-16", "10:00", "11:00"},
		{"Room A", "", "10:00", "11:00"},
		{"Room A", "2025-07-16", "", "11:00"},
		{"Room A", "2025-07-16", "10:00", ""},
	}

	for _, tc := range cases {
		availability, err := svc.CheckAvailability(context.Background(), tc[0], tc[1], tc[2], tc[3])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if availability.Available {
			t.Errorf("expected unavailable for inputs %v", tc)
		}
		if availability.Reason != bookingserrors.ReasonMissingSelection {
			t.Errorf("expected reason %q, got %q", bookingserrors.ReasonMissingSelection, availability.Reason)
		}
	}
}

// End-before-start must short-circuit before the overlap scan runs.
func TestCheckAvailabilityInvalidIntervalSkipsScan(t *testing.T) {
	cfg := testConfig()
	scanned := false
	repo := &mockBookingRepository{
		findByRoomAndDateFunc: func(ctx context.Context, room, date string) ([]*model.Booking, error) {
			scanned = true
			return nil, nil
		},
	}
	svc := NewBookingService(repo, repository.NewMemorySlotLockRepository(), validator.NewBookingValidator(cfg), nil, cfg)

	availability, err := svc.CheckAvailability(context.Background(), "Room A", "2025-07-16", "15:00", "14:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if availability.Available {
		t.Error("expected unavailable")
	}
	if availability.Reason != bookingserrors.ReasonInvalidInterval {
		t.Errorf("expected reason %q, got %q", bookingserrors.ReasonInvalidInterval, availability.Reason)
	}
	if scanned {
		t.Error("overlap scan must not run for an invalid interval")
	}

	// Zero-length interval is invalid too.
	availability, err = svc.CheckAvailability(context.Background(), "Room A", "2025-07-16", "14:00", "14:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if availability.Available || availability.Reason != bookingserrors.ReasonInvalidInterval {
		t.Errorf("expected invalid interval, got %+v", availability)
	}
}

func TestCreateMissingSelection(t *testing.T) {
	svc := newTestService()

	err := svc.Create(context.Background(), newBooking("Room A", "2025-07-16", "", "11:00"))
	if err == nil {
		t.Fatal("expected error")
	}
	if reason := conflictReason(t, err); reason != bookingserrors.ReasonMissingSelection {
		t.Errorf("expected reason %q, got %q", bookingserrors.ReasonMissingSelection, reason)
	}
}

func TestCreateInvalidInterval(t *testing.T) {
	svc := newTestService()

	err := svc.Create(context.Background(), newBooking("Room A", "2025-07-16", "15:00", "14:00"))
	if err == nil {
		t.Fatal("expected error")
	}
	if reason := conflictReason(t, err); reason != bookingserrors.ReasonInvalidInterval {
		t.Errorf("expected reason %q, got %q", bookingserrors.ReasonInvalidInterval, reason)
	}
}

func TestCreateUnknownRoom(t *testing.T) {
	svc := newTestService()

	err := svc.Create(context.Background(), newBooking("Broom Closet", "2025-07-16", "10:00", "11:00"))
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

// Probe, commit, re-probe: the scenario from the original booking form.
func TestProbeCommitScenario(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Create(ctx, newBooking("Room A", "2025-07-16", "14:00", "16:00")); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	availability, err := svc.CheckAvailability(ctx, "Room A", "2025-07-16", "14:00", "15:00")
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if availability.Available || availability.Reason != bookingserrors.ReasonTimeConflict {
		t.Errorf("expected time conflict, got %+v", availability)
	}

	availability, err = svc.CheckAvailability(ctx, "Room A", "2025-07-16", "16:00", "17:00")
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if !availability.Available {
		t.Errorf("expected available, got %+v", availability)
	}

	booking := newBooking("Room A", "2025-07-16", "16:00", "17:00")
	if err := svc.Create(ctx, booking); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if booking.ID == "" {
		t.Error("expected committed booking to have an id")
	}
	if booking.CreatedAt.IsZero() {
		t.Error("expected committed booking to have a creation timestamp")
	}

	availability, err = svc.CheckAvailability(ctx, "Room A", "2025-07-16", "16:30", "17:30")
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if availability.Available || availability.Reason != bookingserrors.ReasonTimeConflict {
		t.Errorf("expected time conflict after commit, got %+v", availability)
	}
}

func TestAdjacentBookingsDoNotConflict(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Create(ctx, newBooking("Room A", "2025-07-16", "10:00", "12:00")); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if err := svc.Create(ctx, newBooking("Room A", "2025-07-16", "12:00", "14:00")); err != nil {
		t.Errorf("adjacent booking must be allowed, got: %v", err)
	}
	if err := svc.Create(ctx, newBooking("Room A", "2025-07-16", "08:00", "10:00")); err != nil {
		t.Errorf("adjacent booking must be allowed, got: %v", err)
	}
}

func TestContainedAndContainingConflict(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Create(ctx, newBooking("Room A", "2025-07-16", "10:00", "12:00")); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	err := svc.Create(ctx, newBooking("Room A", "2025-07-16", "10:30", "11:30"))
	if err == nil {
		t.Fatal("contained interval must conflict")
	}
	if reason := conflictReason(t, err); reason != bookingserrors.ReasonTimeConflict {
		t.Errorf("expected reason %q, got %q", bookingserrors.ReasonTimeConflict, reason)
	}

	err = svc.Create(ctx, newBooking("Room A", "2025-07-16", "09:00", "13:00"))
	if err == nil {
		t.Fatal("containing interval must conflict")
	}
}

// Regression: a truncating parse of "08:00"/"08:30" collapses same-hour
// comparisons and hides this conflict.
func TestSameHourConflictDetected(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Create(ctx, newBooking("Room A", "2025-07-16", "08:00", "10:00")); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	err := svc.Create(ctx, newBooking("Room A", "2025-07-16", "08:30", "09:30"))
	if err == nil {
		t.Fatal("same-hour overlap must conflict")
	}
	if reason := conflictReason(t, err); reason != bookingserrors.ReasonTimeConflict {
		t.Errorf("expected reason %q, got %q", bookingserrors.ReasonTimeConflict, reason)
	}
}

func TestOtherRoomAndOtherDateDoNotConflict(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Create(ctx, newBooking("Room A", "2025-07-16", "10:00", "12:00")); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}
	if err := svc.Create(ctx, newBooking("Room B", "2025-07-16", "10:00", "12:00")); err != nil {
		t.Errorf("different room must not conflict: %v", err)
	}
	if err := svc.Create(ctx, newBooking("Room A", "2025-07-17", "10:00", "12:00")); err != nil {
		t.Errorf("different date must not conflict: %v", err)
	}
}

func TestProbeIsIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Create(ctx, newBooking("Room A", "2025-07-16", "10:00", "12:00")); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		availability, err := svc.CheckAvailability(ctx, "Room A", "2025-07-16", "11:00", "12:00")
		if err != nil {
			t.Fatalf("probe %d failed: %v", i, err)
		}
		if availability.Available || availability.Reason != bookingserrors.ReasonTimeConflict {
			t.Errorf("probe %d: expected stable time conflict, got %+v", i, availability)
		}
	}

	_, total, err := svc.List(ctx, model.BookingFilter{}, 100, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 {
		t.Errorf("probing must not mutate state, expected 1 booking, got %d", total)
	}
}

// Concurrent commits for the same slot: exactly one may win, and the final
// booking set must satisfy the no-overlap invariant.
func TestConcurrentCommitsSingleWinner(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Create(ctx, newBooking("Room A", "2025-07-16", "10:00", "11:00"))
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		appErr, ok := err.(*apperrors.AppError)
		if !ok || appErr.Code != apperrors.CodeConflict {
			t.Errorf("losers must fail with a conflict, got: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly 1 successful commit, got %d", succeeded)
	}

	bookings, _, err := svc.List(ctx, model.BookingFilter{Room: "Room A", Date: "2025-07-16"}, 100, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bookings) != 1 {
		t.Errorf("expected 1 booking after the race, got %d", len(bookings))
	}
}

func TestListDateRangeFilter(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	days := []string{"2025-07-14", "2025-07-15", "2025-07-16", "2025-07-17"}
	for _, day := range days {
		if err := svc.Create(ctx, newBooking("Room A", day, "10:00", "11:00")); err != nil {
			t.Fatalf("seed booking for %s failed: %v", day, err)
		}
	}

	bookings, total, err := svc.List(ctx, model.BookingFilter{FromDate: "2025-07-15", ToDate: "2025-07-16"}, 100, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(bookings) != 2 {
		t.Fatalf("expected 2 bookings in range, got total=%d len=%d", total, len(bookings))
	}
	if bookings[0].Date != "2025-07-15" || bookings[1].Date != "2025-07-16" {
		t.Errorf("expected range-ordered dates, got %s, %s", bookings[0].Date, bookings[1].Date)
	}
}

// ────────────────────────────────────────────────
// Mock repository for scan interception
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	createFunc            func(ctx context.Context, booking *model.Booking) error
	findByRoomAndDateFunc func(ctx context.Context, room, date string) ([]*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context, filter model.BookingFilter) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindByRoomAndDate(ctx context.Context, room, date string) ([]*model.Booking, error) {
	if m.findByRoomAndDateFunc != nil {
		return m.findByRoomAndDateFunc(ctx, room, date)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn repository.TransactionFunc) error {
	return fn(ctx)
}
