package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func findIndex(t *testing.T, models []mongo.IndexModel, firstKey string) mongo.IndexModel {
	t.Helper()
	for _, m := range models {
		keys, ok := m.Keys.(bson.D)
		if !ok || len(keys) == 0 {
			t.Fatalf("index keys must be a non-empty bson.D, got %T", m.Keys)
		}
		if keys[0].Key == firstKey {
			return m
		}
	}
	t.Fatalf("no index starting with key %q", firstKey)
	return mongo.IndexModel{}
}

func TestAttendanceIndexEnforcesOneRecordPerPersonAndDate(t *testing.T) {
	idx := findIndex(t, AttendanceIndexes, "full_name")

	keys := idx.Keys.(bson.D)
	if len(keys) != 2 || keys[1].Key != "date" {
		t.Fatalf("expected compound (full_name, date) keys, got %v", keys)
	}
	if idx.Options == nil || idx.Options.Unique == nil || !*idx.Options.Unique {
		t.Error("attendance (full_name, date) index must be unique")
	}
}

func TestSlotLockIndexExpiresOnDeadline(t *testing.T) {
	idx := findIndex(t, SlotLockIndexes, "expires_at")

	if idx.Options == nil || idx.Options.ExpireAfterSeconds == nil {
		t.Fatal("slot lock expires_at index must carry a TTL")
	}
	if *idx.Options.ExpireAfterSeconds != 0 {
		t.Errorf("TTL must fire at expires_at itself, got %d seconds after", *idx.Options.ExpireAfterSeconds)
	}
}

func TestBookingIndexCoversConflictScan(t *testing.T) {
	idx := findIndex(t, BookingIndexes, "room")

	keys := idx.Keys.(bson.D)
	if len(keys) != 3 || keys[1].Key != "date" || keys[2].Key != "start_time" {
		t.Fatalf("expected (room, date, start_time) keys, got %v", keys)
	}
}
