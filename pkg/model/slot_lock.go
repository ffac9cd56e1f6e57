package model

import "time"

// SlotLock is an advisory lock covering one (room, date) partition while a
// booking commit runs its check-then-insert critical section. Token
// identifies the holder; release only removes the lock it acquired, so a
// holder that outlives its TTL cannot release a successor's lock.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
