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

	bookingserrors "github.com/zermoser/mos-e-form/internal/bookings/errors"
	"github.com/zermoser/mos-e-form/pkg/config"
	mongotx "github.com/zermoser/mos-e-form/pkg/db/mongo"
	"github.com/zermoser/mos-e-form/pkg/model"
)

const (
	CollectionName     = "Bookings"
	LockCollectionName = "Slot_locks"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless it already runs in a
// transaction session, which must not be re-wrapped.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) Count(ctx context.Context, filter model.BookingFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) FindByRoomAndDate(ctx context.Context, room, date string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"room": room, "date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings for room and date: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, mongotx.TransactionFunc(fn))
}

// buildFilter translates a BookingFilter to a Mongo query. Date strings are
// YYYY-MM-DD, so range bounds compare correctly as strings.
func buildFilter(f model.BookingFilter) bson.M {
	filter := bson.M{}
	if f.Room != "" {
		filter["room"] = f.Room
	}
	if f.Date != "" {
		filter["date"] = f.Date
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

type mongoSlotLockRepository struct {
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{collection: db.Collection(LockCollectionName)}
}

// Acquire inserts the lock document; a duplicate key means another commit
// holds the partition. A duplicate whose expires_at has passed is a
// straggler from a crashed holder and gets reclaimed, so the partition
// stays bookable even before the TTL index sweeps it out.
func (r *mongoSlotLockRepository) Acquire(ctx context.Context, lock *model.SlotLock) error {
	lock.CreatedAt = time.Now()

	for attempt := 0; attempt < 2; attempt++ {
		_, err := r.collection.InsertOne(ctx, lock)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to acquire slot lock: %w", err)
		}

		res, err := r.collection.DeleteOne(ctx, bson.M{
			"_id":        lock.ID,
			"expires_at": bson.M{"$lte": time.Now()},
		})
		if err != nil {
			return fmt.Errorf("failed to reclaim expired slot lock: %w", err)
		}
		if res.DeletedCount == 0 {
			return bookingserrors.ErrLockHeld
		}
	}
	return bookingserrors.ErrLockHeld
}

func (r *mongoSlotLockRepository) Release(ctx context.Context, lock *model.SlotLock) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lock.ID, "token": lock.Token})
	return err
}
