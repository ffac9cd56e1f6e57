package model

import "time"

const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
	AttendanceOnLeave = "leave"
	AttendanceAbsent  = "absent"
)

// AttendanceRecord is one person's check-in for a calendar date.
type AttendanceRecord struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	FullName  string    `json:"full_name" bson:"full_name" validate:"required,min=2,max=100"`
	Date      string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=present late leave absent"`
	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=500"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// AttendanceFilter narrows attendance listings. An exact Date takes
// precedence over the FromDate/ToDate range.
type AttendanceFilter struct {
	Date     string
	Status   string
	FromDate string
	ToDate   string
}

// AttendanceSummary aggregates one day's records. Trend is the percentage
// point change of the present rate against the previous day; it is zero
// when the previous day has no records.
type AttendanceSummary struct {
	Date        string  `json:"date"`
	Total       int     `json:"total"`
	Present     int     `json:"present"`
	Late        int     `json:"late"`
	OnLeave     int     `json:"on_leave"`
	Absent      int     `json:"absent"`
	PresentRate float64 `json:"present_rate"`
	Trend       float64 `json:"trend"`
}
