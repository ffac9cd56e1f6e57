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

	attendanceerrors "github.com/zermoser/mos-e-form/internal/attendance/errors"
	"github.com/zermoser/mos-e-form/pkg/config"
	"github.com/zermoser/mos-e-form/pkg/model"
)

const CollectionName = "Attendance"

type mongoAttendanceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAttendanceRepository(cfg *config.Config) AttendanceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAttendanceRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAttendanceRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Create relies on a unique index on (full_name, date) to reject double
// check-ins, surfacing it as ErrAlreadyRecorded.
func (r *mongoAttendanceRepository) Create(ctx context.Context, record *model.AttendanceRecord) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	record.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendanceerrors.ErrAlreadyRecorded
		}
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

func (r *mongoAttendanceRepository) FindByID(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", attendanceerrors.ErrInvalidID, id)
	}

	var record model.AttendanceRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, attendanceerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find attendance record: %w", err)
	}

	return &record, nil
}

func (r *mongoAttendanceRepository) FindAll(ctx context.Context, filter model.AttendanceFilter, limit int, offset int64) ([]*model.AttendanceRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "full_name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find attendance records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.AttendanceRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode attendance records: %w", err)
	}
	return records, nil
}

func (r *mongoAttendanceRepository) Count(ctx context.Context, filter model.AttendanceFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count attendance records: %w", err)
	}
	return count, nil
}

func buildFilter(f model.AttendanceFilter) bson.M {
	filter := bson.M{}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Date == "" && (f.FromDate != "" || f.ToDate != "") {
		bounds := bson.M{}
		if f.FromDate != "" {
			bounds["$gte"] = f.FromDate
		}
		if f.ToDate != "" {
			bounds["$lte"] = f.ToDate
		}
		filter["date"] = bounds
	}
	return filter
}
