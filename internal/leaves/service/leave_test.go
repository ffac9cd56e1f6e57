package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/zermoser/mos-e-form/internal/leaves/repository"
	"github.com/zermoser/mos-e-form/internal/leaves/validator"
	"github.com/zermoser/mos-e-form/pkg/config"
	apperrors "github.com/zermoser/mos-e-form/pkg/errors"
	"github.com/zermoser/mos-e-form/pkg/kafka"
	"github.com/zermoser/mos-e-form/pkg/logger"
	"github.com/zermoser/mos-e-form/pkg/model"
)

type capturingPublisher struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (p *capturingPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *capturingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []string
	for _, msg := range p.messages {
		types = append(types, msg.Headers["event-type"])
	}
	return types
}

func newTestService(publisher EventPublisher) LeaveService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewLeaveService(
		repository.NewMemoryLeaveRepository(),
		validator.NewLeaveValidator(),
		publisher,
		cfg,
	)
}

func leaveRequest() *model.LeaveRequest {
	return &model.LeaveRequest{
		FullName:  "Somchai Jaidee",
		LeaveDate: "2025-07-18",
		Reason:    "Family errand",
	}
}

func TestCreateLeaveRequest(t *testing.T) {
	svc := newTestService(nil)

	request := leaveRequest()
	// A client-supplied status must be ignored.
	request.Status = model.LeaveApproved

	if err := svc.Create(context.Background(), request); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if request.ID == "" {
		t.Error("expected create to assign an ID")
	}
	if request.Status != model.LeavePending {
		t.Errorf("status = %q, want %q", request.Status, model.LeavePending)
	}

	got, err := svc.GetByID(context.Background(), request.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != model.LeavePending {
		t.Errorf("stored status = %q, want %q", got.Status, model.LeavePending)
	}
}

func TestCreateLeaveRequestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.LeaveRequest)
	}{
		{"missing name", func(r *model.LeaveRequest) { r.FullName = "" }},
		{"bad date", func(r *model.LeaveRequest) { r.LeaveDate = "18/07/2025" }},
		{"missing reason", func(r *model.LeaveRequest) { r.Reason = "" }},
	}

	svc := newTestService(nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := leaveRequest()
			tc.mutate(request)
			err := svc.Create(context.Background(), request)
			appErr, ok := err.(*apperrors.AppError)
			if !ok || appErr.Code != apperrors.CodeValidation {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateStatusTransition(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := newTestService(publisher)

	request := leaveRequest()
	if err := svc.Create(context.Background(), request); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), request.ID, &model.LeaveStatusUpdate{Status: model.LeaveApproved})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != model.LeaveApproved {
		t.Errorf("status = %q, want %q", updated.Status, model.LeaveApproved)
	}

	// A decided request cannot be decided again, in either direction.
	for _, status := range []string{model.LeaveRejected, model.LeaveApproved} {
		_, err := svc.UpdateStatus(context.Background(), request.ID, &model.LeaveStatusUpdate{Status: status})
		appErr, ok := err.(*apperrors.AppError)
		if !ok || appErr.Code != apperrors.CodeConflict {
			t.Errorf("expected conflict re-deciding to %q, got %v", status, err)
		}
	}

	types := publisher.eventTypes()
	if len(types) != 2 || types[0] != EventLeaveCreated || types[1] != EventLeaveUpdated {
		t.Errorf("unexpected events: %v", types)
	}
}

func TestUpdateStatusRejectsBadInput(t *testing.T) {
	svc := newTestService(nil)

	request := leaveRequest()
	if err := svc.Create(context.Background(), request); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Only approved and rejected are decisions; pending is not.
	for _, status := range []string{"pending", "cancelled", ""} {
		_, err := svc.UpdateStatus(context.Background(), request.ID, &model.LeaveStatusUpdate{Status: status})
		appErr, ok := err.(*apperrors.AppError)
		if !ok || appErr.Code != apperrors.CodeValidation {
			t.Errorf("expected validation error for status %q, got %v", status, err)
		}
	}

	_, err := svc.UpdateStatus(context.Background(), uuid.NewString(), &model.LeaveStatusUpdate{Status: model.LeaveApproved})
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestListLeavesByStatus(t *testing.T) {
	svc := newTestService(nil)

	first := leaveRequest()
	if err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second := leaveRequest()
	second.FullName = "Arunee Sawangjai"
	second.LeaveDate = "2025-07-19"
	if err := svc.Create(context.Background(), second); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), first.ID, &model.LeaveStatusUpdate{Status: model.LeaveRejected}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	pending, total, err := svc.List(context.Background(), model.LeaveFilter{Status: model.LeavePending}, 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(pending) != 1 || pending[0].ID != second.ID {
		t.Errorf("unexpected pending list: total=%d %+v", total, pending)
	}
}
