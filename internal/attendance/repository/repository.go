package repository

import (
	"context"

	"github.com/zermoser/mos-e-form/pkg/model"
)

// AttendanceRepository stores daily check-in records. Create returns
// ErrAlreadyRecorded when the (person, date) pair already has one; both
// backends enforce this atomically.
type AttendanceRepository interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	FindByID(ctx context.Context, id string) (*model.AttendanceRecord, error)
	FindAll(ctx context.Context, filter model.AttendanceFilter, limit int, offset int64) ([]*model.AttendanceRecord, error)
	Count(ctx context.Context, filter model.AttendanceFilter) (int64, error)
}
