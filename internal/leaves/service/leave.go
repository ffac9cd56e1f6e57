package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	leaveserrors "github.com/zermoser/mos-e-form/internal/leaves/errors"
	"github.com/zermoser/mos-e-form/internal/leaves/repository"
	"github.com/zermoser/mos-e-form/internal/leaves/validator"
	"github.com/zermoser/mos-e-form/pkg/config"
	apperrors "github.com/zermoser/mos-e-form/pkg/errors"
	"github.com/zermoser/mos-e-form/pkg/kafka"
	"github.com/zermoser/mos-e-form/pkg/model"
)

const (
	EventLeaveCreated = "leave.created"
	EventLeaveUpdated = "leave.updated"
)

// EventPublisher announces domain events. A nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type LeaveService interface {
	// Create files a new request; the status always starts at pending
	// regardless of what the caller sends.
	Create(ctx context.Context, request *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	List(ctx context.Context, filter model.LeaveFilter, limit int, offset int64) ([]*model.LeaveRequest, int64, error)
	// UpdateStatus applies the one allowed transition, pending to
	// approved or rejected. Deciding twice is a conflict.
	UpdateStatus(ctx context.Context, id string, update *model.LeaveStatusUpdate) (*model.LeaveRequest, error)
}

type leaveService struct {
	repo      repository.LeaveRepository
	validator *validator.LeaveValidator
	publisher EventPublisher
	cfg       *config.Config
}

func NewLeaveService(
	repo repository.LeaveRepository,
	leaveValidator *validator.LeaveValidator,
	publisher EventPublisher,
	cfg *config.Config,
) LeaveService {
	return &leaveService{
		repo:      repo,
		validator: leaveValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *leaveService) Create(ctx context.Context, request *model.LeaveRequest) error {
	s.sanitize(request)

	request.ID = uuid.NewString()
	request.Status = model.LeavePending

	if err := s.validator.Validate(request); err != nil {
		s.cfg.Log.Warn("Leave request validation failed", "error", err)
		return apperrors.Validation("Leave request validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, request); err != nil {
		s.cfg.Log.Error("Failed to create leave request", "error", err)
		return apperrors.Internal("Failed to create leave request", err)
	}

	s.publish(ctx, EventLeaveCreated, request)

	s.cfg.Log.Info("Leave request created",
		"id", request.ID,
		"leave_date", request.LeaveDate,
	)
	return nil
}

func (s *leaveService) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Leave request ID cannot be empty")
	}

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, leaveserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Leave request", id)
		}
		if errors.Is(err, leaveserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid leave request ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve leave request", err)
	}

	return request, nil
}

func (s *leaveService) List(ctx context.Context, filter model.LeaveFilter, limit int, offset int64) ([]*model.LeaveRequest, int64, error) {
	var count int64
	var requests []*model.LeaveRequest
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count leave requests", "error", errCount)
			errCount = apperrors.Internal("Failed to count leave requests", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		requests, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list leave requests", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve leave requests", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return requests, count, nil
}

func (s *leaveService) UpdateStatus(ctx context.Context, id string, update *model.LeaveStatusUpdate) (*model.LeaveRequest, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Leave request ID cannot be empty")
	}

	update.Status = strings.TrimSpace(update.Status)
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Leave status update validation failed", "error", err)
		return nil, apperrors.Validation("Leave status update validation failed", map[string]any{"error": err.Error()})
	}

	request, err := s.repo.UpdateStatus(ctx, id, update.Status)
	if err != nil {
		switch {
		case errors.Is(err, leaveserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Leave request", id)
		case errors.Is(err, leaveserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid leave request ID format")
		case errors.Is(err, leaveserrors.ErrAlreadyDecided):
			return nil, apperrors.Conflict("Leave request has already been decided")
		}
		s.cfg.Log.Error("Failed to update leave request", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update leave request", err)
	}

	s.publish(ctx, EventLeaveUpdated, request)

	s.cfg.Log.Info("Leave request decided",
		"id", request.ID,
		"status", request.Status,
	)
	return request, nil
}

// --- Helpers ---

func (s *leaveService) sanitize(r *model.LeaveRequest) {
	r.FullName = strings.TrimSpace(r.FullName)
	r.LeaveDate = strings.TrimSpace(r.LeaveDate)
	r.Reason = strings.TrimSpace(r.Reason)
}

func (s *leaveService) publish(ctx context.Context, eventType string, request *model.LeaveRequest) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewEvent(eventType, "leaves", request.ID, request)
	if err := s.publisher.Publish(ctx, msg); err != nil {
		// Event delivery is best-effort; the write itself is committed.
		s.cfg.Log.Warn("Failed to publish leave event", "id", request.ID, "error", err)
	}
}
