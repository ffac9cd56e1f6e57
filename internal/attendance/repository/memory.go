package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	attendanceerrors "github.com/zermoser/mos-e-form/internal/attendance/errors"
	"github.com/zermoser/mos-e-form/pkg/model"
)

type memoryAttendanceRepository struct {
	mu      sync.RWMutex
	records []*model.AttendanceRecord
}

func NewMemoryAttendanceRepository() AttendanceRepository {
	return &memoryAttendanceRepository{}
}

// Create rejects a second record for the same (person, date) under the
// write lock, matching the Mongo backend's unique index.
func (r *memoryAttendanceRepository) Create(ctx context.Context, record *model.AttendanceRecord) error {
	record.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	stored := *record
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.FullName == record.FullName && rec.Date == record.Date {
			return attendanceerrors.ErrAlreadyRecorded
		}
	}
	r.records = append(r.records, &stored)
	return nil
}

func (r *memoryAttendanceRepository) FindByID(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, attendanceerrors.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.ID == id {
			found := *rec
			return &found, nil
		}
	}
	return nil, attendanceerrors.ErrNotFound
}

func (r *memoryAttendanceRepository) FindAll(ctx context.Context, filter model.AttendanceFilter, limit int, offset int64) ([]*model.AttendanceRecord, error) {
	r.mu.RLock()
	matched := r.filter(filter)
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date < matched[j].Date
		}
		if matched[i].FullName != matched[j].FullName {
			return matched[i].FullName < matched[j].FullName
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	if offset >= int64(len(matched)) {
		return []*model.AttendanceRecord{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memoryAttendanceRepository) Count(ctx context.Context, filter model.AttendanceFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filter(filter))), nil
}

// filter must be called with at least a read lock held.
func (r *memoryAttendanceRepository) filter(f model.AttendanceFilter) []*model.AttendanceRecord {
	matched := make([]*model.AttendanceRecord, 0, len(r.records))
	for _, rec := range r.records {
		if f.Date != "" && rec.Date != f.Date {
			continue
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.FromDate != "" && rec.Date < f.FromDate {
			continue
		}
		if f.ToDate != "" && rec.Date > f.ToDate {
			continue
		}
		found := *rec
		matched = append(matched, &found)
	}
	return matched
}
