package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	bookingserrors "github.com/zermoser/mos-e-form/internal/bookings/errors"
	"github.com/zermoser/mos-e-form/internal/bookings/repository"
	"github.com/zermoser/mos-e-form/internal/bookings/validator"
	"github.com/zermoser/mos-e-form/pkg/config"
	apperrors "github.com/zermoser/mos-e-form/pkg/errors"
	"github.com/zermoser/mos-e-form/pkg/kafka"
	"github.com/zermoser/mos-e-form/pkg/model"
	"github.com/zermoser/mos-e-form/pkg/timeslot"
)

const (
	slotLockTTL = 10 * time.Second

	EventBookingCreated = "booking.created"
)

// EventPublisher announces domain events. A nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingService interface {
	// CheckAvailability is the advisory probe: a pure read that reports
	// whether the slot is free without reserving anything.
	CheckAvailability(ctx context.Context, room, date, startTime, endTime string) (*model.Availability, error)
	// Create commits a booking, re-running the availability checks inside
	// an atomic critical section on the (room, date) partition.
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.SlotLockRepository
	validator *validator.BookingValidator
	publisher EventPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	bookingValidator *validator.BookingValidator,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) CheckAvailability(ctx context.Context, room, date, startTime, endTime string) (*model.Availability, error) {
	if reason := precheck(room, date, startTime, endTime); reason != "" {
		return &model.Availability{Available: false, Reason: reason}, nil
	}

	if err := s.validator.ValidateRoom(room); err != nil {
		return nil, apperrors.Validation("Unknown room", map[string]any{"room": room})
	}

	conflict, err := s.findConflict(ctx, room, date, startTime, endTime, "")
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing bookings", err)
	}
	if conflict != nil {
		return &model.Availability{Available: false, Reason: bookingserrors.ReasonTimeConflict}, nil
	}

	return &model.Availability{Available: true}, nil
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.sanitize(booking)

	// Same precondition chain as the probe; first failing check wins.
	if reason := precheck(booking.Room, booking.Date, booking.StartTime, booking.EndTime); reason != "" {
		return apperrors.InvalidInput("Booking request rejected").
			WithDetails(map[string]any{"reason": reason})
	}

	booking.ID = uuid.NewString()
	if err := s.validate(booking); err != nil {
		return err
	}

	// The advisory lock serializes all commits touching this (room, date)
	// partition, closing the gap between the probe and the submit.
	lock, err := s.acquireSlotLock(ctx, slotLockID(booking.Room, booking.Date))
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lock); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lock.ID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		conflict, err := s.findConflict(txCtx, booking.Room, booking.Date, booking.StartTime, booking.EndTime, booking.ID)
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}
		if conflict != nil {
			return apperrors.Conflict(fmt.Sprintf(
				"Room %s is already booked %s-%s on %s",
				conflict.Room, conflict.StartTime, conflict.EndTime, conflict.Date,
			)).WithDetails(map[string]any{"reason": bookingserrors.ReasonTimeConflict})
		}
		if err := s.repo.Create(txCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.publishCreated(ctx, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room", booking.Room,
		"date", booking.Date,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

// precheck runs the shared precondition chain and returns the first failing
// reason, or "" when the request may proceed to the overlap scan.
func precheck(room, date, startTime, endTime string) string {
	if room == "" || date == "" || startTime == "" || endTime == "" {
		return bookingserrors.ReasonMissingSelection
	}

	interval, err := timeslot.NewInterval(startTime, endTime)
	if err != nil || !interval.Valid() {
		return bookingserrors.ReasonInvalidInterval
	}

	return ""
}

// findConflict scans confirmed bookings for the room and date and returns
// the first one whose half-open interval overlaps [startTime, endTime).
// excludeID skips the booking being committed.
func (s *bookingService) findConflict(ctx context.Context, room, date, startTime, endTime, excludeID string) (*model.Booking, error) {
	proposed, err := timeslot.NewInterval(startTime, endTime)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByRoomAndDate(ctx, room, date)
	if err != nil {
		return nil, err
	}

	for _, b := range existing {
		if b.ID == excludeID {
			continue
		}
		booked, err := timeslot.NewInterval(b.StartTime, b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("stored booking %s has malformed times: %w", b.ID, err)
		}
		if proposed.Overlaps(booked) {
			return b, nil
		}
	}
	return nil, nil
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.Room = strings.TrimSpace(b.Room)
	b.Date = strings.TrimSpace(b.Date)
	b.StartTime = strings.TrimSpace(b.StartTime)
	b.EndTime = strings.TrimSpace(b.EndTime)
	b.RequestedBy = strings.TrimSpace(b.RequestedBy)
	b.Purpose = strings.TrimSpace(b.Purpose)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func slotLockID(room, date string) string {
	return fmt.Sprintf("slot_%s_%s", room, date)
}

func (s *bookingService) acquireSlotLock(ctx context.Context, lockID string) (*model.SlotLock, error) {
	lock := &model.SlotLock{
		ID:        lockID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(slotLockTTL),
	}

	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.Conflict("This slot is currently being booked by another request. Please try again.")
		}
		return nil, apperrors.Internal("Failed to acquire slot lock", err)
	}
	return lock, nil
}

func (s *bookingService) publishCreated(ctx context.Context, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewEvent(EventBookingCreated, "bookings", booking.ID, booking)
	if err := s.publisher.Publish(ctx, msg); err != nil {
		// Event delivery is best-effort; the booking itself is committed.
		s.cfg.Log.Warn("Failed to publish booking event", "id", booking.ID, "error", err)
	}
}
