package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	leaveserrors "github.com/zermoser/mos-e-form/internal/leaves/errors"
	"github.com/zermoser/mos-e-form/pkg/model"
)

type memoryLeaveRepository struct {
	mu       sync.RWMutex
	requests []*model.LeaveRequest
}

func NewMemoryLeaveRepository() LeaveRepository {
	return &memoryLeaveRepository{}
}

func (r *memoryLeaveRepository) Create(ctx context.Context, request *model.LeaveRequest) error {
	request.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	stored := *request
	r.mu.Lock()
	r.requests = append(r.requests, &stored)
	r.mu.Unlock()
	return nil
}

func (r *memoryLeaveRepository) FindByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveserrors.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.requests {
		if req.ID == id {
			found := *req
			return &found, nil
		}
	}
	return nil, leaveserrors.ErrNotFound
}

func (r *memoryLeaveRepository) FindAll(ctx context.Context, filter model.LeaveFilter, limit int, offset int64) ([]*model.LeaveRequest, error) {
	r.mu.RLock()
	matched := r.filter(filter)
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].LeaveDate != matched[j].LeaveDate {
			return matched[i].LeaveDate < matched[j].LeaveDate
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	if offset >= int64(len(matched)) {
		return []*model.LeaveRequest{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memoryLeaveRepository) Count(ctx context.Context, filter model.LeaveFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filter(filter))), nil
}

func (r *memoryLeaveRepository) UpdateStatus(ctx context.Context, id, status string) (*model.LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveserrors.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, req := range r.requests {
		if req.ID != id {
			continue
		}
		if req.Status != model.LeavePending {
			return nil, leaveserrors.ErrAlreadyDecided
		}
		req.Status = status
		updated := *req
		return &updated, nil
	}
	return nil, leaveserrors.ErrNotFound
}

// filter must be called with at least a read lock held.
func (r *memoryLeaveRepository) filter(f model.LeaveFilter) []*model.LeaveRequest {
	matched := make([]*model.LeaveRequest, 0, len(r.requests))
	for _, req := range r.requests {
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if f.Date != "" && req.LeaveDate != f.Date {
			continue
		}
		if f.FromDate != "" && req.LeaveDate < f.FromDate {
			continue
		}
		if f.ToDate != "" && req.LeaveDate > f.ToDate {
			continue
		}
		found := *req
		matched = append(matched, &found)
	}
	return matched
}
