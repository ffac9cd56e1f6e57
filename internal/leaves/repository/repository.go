package repository

import (
	"context"

	"github.com/zermoser/mos-e-form/pkg/model"
)

// LeaveRepository stores leave requests.
type LeaveRepository interface {
	Create(ctx context.Context, request *model.LeaveRequest) error
	FindByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	FindAll(ctx context.Context, filter model.LeaveFilter, limit int, offset int64) ([]*model.LeaveRequest, error)
	Count(ctx context.Context, filter model.LeaveFilter) (int64, error)
	// UpdateStatus atomically moves a pending request to the given status
	// and returns the updated request. It returns ErrAlreadyDecided when
	// the request has left the pending state.
	UpdateStatus(ctx context.Context, id, status string) (*model.LeaveRequest, error)
}
