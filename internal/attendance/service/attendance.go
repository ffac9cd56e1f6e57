package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	attendanceerrors "github.com/zermoser/mos-e-form/internal/attendance/errors"
	"github.com/zermoser/mos-e-form/internal/attendance/repository"
	"github.com/zermoser/mos-e-form/internal/attendance/validator"
	"github.com/zermoser/mos-e-form/pkg/config"
	apperrors "github.com/zermoser/mos-e-form/pkg/errors"
	"github.com/zermoser/mos-e-form/pkg/model"
)

type AttendanceService interface {
	// Create records one check-in. A person may have at most one record
	// per calendar date.
	Create(ctx context.Context, record *model.AttendanceRecord) error
	GetByID(ctx context.Context, id string) (*model.AttendanceRecord, error)
	List(ctx context.Context, filter model.AttendanceFilter, limit int, offset int64) ([]*model.AttendanceRecord, int64, error)
	// Summary aggregates one day's records and compares the present rate
	// against the previous calendar day.
	Summary(ctx context.Context, date string) (*model.AttendanceSummary, error)
}

type attendanceService struct {
	repo      repository.AttendanceRepository
	validator *validator.AttendanceValidator
	cfg       *config.Config
}

func NewAttendanceService(
	repo repository.AttendanceRepository,
	attendanceValidator *validator.AttendanceValidator,
	cfg *config.Config,
) AttendanceService {
	return &attendanceService{
		repo:      repo,
		validator: attendanceValidator,
		cfg:       cfg,
	}
}

func (s *attendanceService) Create(ctx context.Context, record *model.AttendanceRecord) error {
	s.sanitize(record)

	record.ID = uuid.NewString()
	if err := s.validator.Validate(record); err != nil {
		s.cfg.Log.Warn("Attendance validation failed", "error", err)
		return apperrors.Validation("Attendance validation failed", map[string]any{"error": err.Error()})
	}

	// Uniqueness per (person, date) is enforced inside the store, under
	// the write lock in memory and by a unique index on Mongo, so two
	// concurrent check-ins cannot both land.
	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, attendanceerrors.ErrAlreadyRecorded) {
			return apperrors.Conflict("Attendance already recorded for this person and date")
		}
		s.cfg.Log.Error("Failed to create attendance record", "error", err)
		return apperrors.Internal("Failed to create attendance record", err)
	}

	s.cfg.Log.Info("Attendance recorded",
		"id", record.ID,
		"date", record.Date,
		"status", record.Status,
	)
	return nil
}

func (s *attendanceService) GetByID(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Attendance record ID cannot be empty")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendanceerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Attendance record", id)
		}
		if errors.Is(err, attendanceerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid attendance record ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve attendance record", err)
	}

	return record, nil
}

func (s *attendanceService) List(ctx context.Context, filter model.AttendanceFilter, limit int, offset int64) ([]*model.AttendanceRecord, int64, error) {
	var count int64
	var records []*model.AttendanceRecord
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count attendance records", "error", errCount)
			errCount = apperrors.Internal("Failed to count attendance records", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		records, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list attendance records", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve attendance records", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return records, count, nil
}

func (s *attendanceService) Summary(ctx context.Context, date string) (*model.AttendanceSummary, error) {
	date = strings.TrimSpace(date)
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, apperrors.InvalidInput("Date must be a YYYY-MM-DD date")
	}

	summary, err := s.summarizeDay(ctx, date)
	if err != nil {
		return nil, apperrors.Internal("Failed to summarize attendance", err)
	}

	previousDate := day.AddDate(0, 0, -1).Format("2006-01-02")
	previous, err := s.summarizeDay(ctx, previousDate)
	if err != nil {
		return nil, apperrors.Internal("Failed to summarize attendance", err)
	}
	if previous.Total > 0 {
		summary.Trend = summary.PresentRate - previous.PresentRate
	}

	return summary, nil
}

// --- Helpers ---

func (s *attendanceService) summarizeDay(ctx context.Context, date string) (*model.AttendanceSummary, error) {
	records, err := s.repo.FindAll(ctx, model.AttendanceFilter{Date: date}, 0, 0)
	if err != nil {
		return nil, err
	}

	summary := &model.AttendanceSummary{Date: date, Total: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case model.AttendancePresent:
			summary.Present++
		case model.AttendanceLate:
			summary.Late++
		case model.AttendanceOnLeave:
			summary.OnLeave++
		case model.AttendanceAbsent:
			summary.Absent++
		}
	}

	// Late check-ins still count as attended for the rate.
	if summary.Total > 0 {
		summary.PresentRate = float64(summary.Present+summary.Late) / float64(summary.Total) * 100
	}
	return summary, nil
}

func (s *attendanceService) sanitize(r *model.AttendanceRecord) {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Date = strings.TrimSpace(r.Date)
	r.Status = strings.TrimSpace(r.Status)
	r.Reason = strings.TrimSpace(r.Reason)
}
