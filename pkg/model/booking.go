package model

import "time"

// Booking is one confirmed reservation of a room for a contiguous
// [StartTime, EndTime) range on a calendar date. Bookings are create-only:
// no field is mutated and no cancellation flow exists.
type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	Room        string    `json:"room" bson:"room" validate:"required,room"`
	Date        string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string    `json:"start_time" bson:"start_time" validate:"required,slot_time"`
	EndTime     string    `json:"end_time" bson:"end_time" validate:"required,slot_time"`
	RequestedBy string    `json:"requested_by" bson:"requested_by" validate:"required,min=2,max=100"`
	Purpose     string    `json:"purpose,omitempty" bson:"purpose,omitempty" validate:"omitempty,max=500"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Availability is the result of the advisory probe. Reason is set only
// when Available is false.
type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// BookingFilter narrows listing queries. The zero value matches everything.
// FromDate/ToDate bound the booking date inclusively and exist for the
// tabular export consumer.
type BookingFilter struct {
	Room     string
	Date     string
	FromDate string
	ToDate   string
}
