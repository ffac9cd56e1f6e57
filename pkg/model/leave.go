package model

import "time"

const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// LeaveRequest is a student's request to be excused on LeaveDate.
// Status starts at pending and may transition once to approved or rejected.
type LeaveRequest struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	FullName  string    `json:"full_name" bson:"full_name" validate:"required,min=2,max=100"`
	LeaveDate string    `json:"leave_date" bson:"leave_date" validate:"required,datetime=2006-01-02"`
	Reason    string    `json:"reason" bson:"reason" validate:"required,min=2,max=500"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=pending approved rejected"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// LeaveFilter narrows leave listings. An exact Date takes precedence over
// the FromDate/ToDate range.
type LeaveFilter struct {
	Status   string
	Date     string
	FromDate string
	ToDate   string
}

// LeaveStatusUpdate carries the decision for a pending request.
type LeaveStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}
