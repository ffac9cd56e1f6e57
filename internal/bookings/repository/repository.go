package repository

import (
	"context"

	"github.com/zermoser/mos-e-form/pkg/model"
)

// TransactionFunc runs with any backend-specific transaction state carried
// in the context.
type TransactionFunc func(ctx context.Context) error

// BookingRepository abstracts booking storage so the conflict engine is
// identical over the in-memory store and Mongo.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context, filter model.BookingFilter) (int64, error)
	FindByRoomAndDate(ctx context.Context, room, date string) ([]*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

// SlotLockRepository provides the advisory lock serializing commits on one
// (room, date) partition. Acquire returns ErrLockHeld when the lock is taken
// and not yet expired. Release is a no-op unless the stored token matches
// the holder's.
type SlotLockRepository interface {
	Acquire(ctx context.Context, lock *model.SlotLock) error
	Release(ctx context.Context, lock *model.SlotLock) error
}
