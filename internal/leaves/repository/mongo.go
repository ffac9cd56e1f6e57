package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	leaveserrors "github.com/zermoser/mos-e-form/internal/leaves/errors"
	"github.com/zermoser/mos-e-form/pkg/config"
	"github.com/zermoser/mos-e-form/pkg/model"
)

const CollectionName = "Leave_requests"

type mongoLeaveRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLeaveRepository(cfg *config.Config) LeaveRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLeaveRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoLeaveRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoLeaveRepository) Create(ctx context.Context, request *model.LeaveRequest) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	request.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, request); err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}

func (r *mongoLeaveRepository) FindByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", leaveserrors.ErrInvalidID, id)
	}

	var request model.LeaveRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, leaveserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find leave request: %w", err)
	}

	return &request, nil
}

func (r *mongoLeaveRepository) FindAll(ctx context.Context, filter model.LeaveFilter, limit int, offset int64) ([]*model.LeaveRequest, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "leave_date", Value: 1}, {Key: "created_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find leave requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*model.LeaveRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode leave requests: %w", err)
	}
	return requests, nil
}

func (r *mongoLeaveRepository) Count(ctx context.Context, filter model.LeaveFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count leave requests: %w", err)
	}
	return count, nil
}

// UpdateStatus matches on (id, pending) so concurrent decisions cannot both
// win. A miss is disambiguated with a second lookup.
func (r *mongoLeaveRepository) UpdateStatus(ctx context.Context, id, status string) (*model.LeaveRequest, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", leaveserrors.ErrInvalidID, id)
	}

	var updated model.LeaveRequest
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": model.LeavePending},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update leave request: %w", err)
	}

	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, leaveserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find leave request: %w", err)
	}
	return nil, leaveserrors.ErrAlreadyDecided
}

func buildFilter(f model.LeaveFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Date != "" {
		filter["leave_date"] = f.Date
	}
	if f.Date == "" && (f.FromDate != "" || f.ToDate != "") {
		bounds := bson.M{}
		if f.FromDate != "" {
			bounds["$gte"] = f.FromDate
		}
		if f.ToDate != "" {
			bounds["$lte"] = f.ToDate
		}
		filter["leave_date"] = bounds
	}
	return filter
}
