package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	bookingserrors "github.com/zermoser/mos-e-form/internal/bookings/errors"
	"github.com/zermoser/mos-e-form/pkg/model"
)

// memoryBookingRepository is the reference store: a process-lifetime slice,
// discarded on restart, mirroring the original form's in-memory behavior.
type memoryBookingRepository struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	bookings []*model.Booking
}

func NewMemoryBookingRepository() BookingRepository {
	return &memoryBookingRepository{}
}

func (r *memoryBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	stored := *booking
	r.mu.Lock()
	r.bookings = append(r.bookings, &stored)
	r.mu.Unlock()
	return nil
}

func (r *memoryBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, bookingserrors.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if b.ID == id {
			found := *b
			return &found, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (r *memoryBookingRepository) FindAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	r.mu.RLock()
	matched := r.filter(filter)
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date < matched[j].Date
		}
		if matched[i].StartTime != matched[j].StartTime {
			return matched[i].StartTime < matched[j].StartTime
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	if offset >= int64(len(matched)) {
		return []*model.Booking{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memoryBookingRepository) Count(ctx context.Context, filter model.BookingFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filter(filter))), nil
}

func (r *memoryBookingRepository) FindByRoomAndDate(ctx context.Context, room, date string) ([]*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(model.BookingFilter{Room: room, Date: date}), nil
}

// ExecuteTransaction serializes commit critical sections. Individual
// operations keep their own locking, so fn may call back into the repository.
func (r *memoryBookingRepository) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(ctx)
}

// filter must be called with at least a read lock held. Date bounds compare
// lexicographically, which is correct for YYYY-MM-DD.
func (r *memoryBookingRepository) filter(f model.BookingFilter) []*model.Booking {
	matched := make([]*model.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if f.Room != "" && b.Room != f.Room {
			continue
		}
		if f.Date != "" && b.Date != f.Date {
			continue
		}
		if f.FromDate != "" && b.Date < f.FromDate {
			continue
		}
		if f.ToDate != "" && b.Date > f.ToDate {
			continue
		}
		found := *b
		matched = append(matched, &found)
	}
	return matched
}

// memorySlotLockRepository backs the advisory lock with a local map.
type memorySlotLockRepository struct {
	mu    sync.Mutex
	locks map[string]*model.SlotLock
}

func NewMemorySlotLockRepository() SlotLockRepository {
	return &memorySlotLockRepository{locks: make(map[string]*model.SlotLock)}
}

func (r *memorySlotLockRepository) Acquire(ctx context.Context, lock *model.SlotLock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if held, ok := r.locks[lock.ID]; ok && time.Now().Before(held.ExpiresAt) {
		return bookingserrors.ErrLockHeld
	}
	stored := *lock
	r.locks[lock.ID] = &stored
	return nil
}

func (r *memorySlotLockRepository) Release(ctx context.Context, lock *model.SlotLock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if held, ok := r.locks[lock.ID]; ok && held.Token == lock.Token {
		delete(r.locks, lock.ID)
	}
	return nil
}
