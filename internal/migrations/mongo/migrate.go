package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	attendancerepo "github.com/zermoser/mos-e-form/internal/attendance/repository"
	bookingsrepo "github.com/zermoser/mos-e-form/internal/bookings/repository"
	leavesrepo "github.com/zermoser/mos-e-form/internal/leaves/repository"
	"github.com/zermoser/mos-e-form/pkg/config"
)

var (
	BookingIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "room", Value: 1},
			{Key: "date", Value: 1},
			{Key: "start_time", Value: 1},
		}},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}}},
	}

	// TTL sweep for advisory locks left behind by crashed holders;
	// Acquire also reclaims expired locks inline, this keeps the
	// collection from accumulating stragglers.
	SlotLockIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	// The unique index carries the one-record-per-(person, date)
	// invariant on the Mongo backend.
	AttendanceIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "full_name", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "status", Value: 1}}},
	}

	LeaveIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "leave_date", Value: 1}}},
		{Keys: bson.D{{Key: "leave_date", Value: 1}}},
	}
)

// RunMigration ensures every collection the services write to carries its
// indexes. CreateMany is idempotent for identical specs, so the job can run
// on every deploy.
func RunMigration(ctx context.Context, cfg *config.Config) error {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	collections := map[string][]mongo.IndexModel{
		bookingsrepo.CollectionName:     BookingIndexes,
		bookingsrepo.LockCollectionName: SlotLockIndexes,
		attendancerepo.CollectionName:   AttendanceIndexes,
		leavesrepo.CollectionName:       LeaveIndexes,
	}

	for name, indexes := range collections {
		if err := ensureIndexes(ctx, db, name, indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
		cfg.Log.Info("Ensured indexes", "collection", name, "indexes", len(indexes))
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	_, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	return err
}
