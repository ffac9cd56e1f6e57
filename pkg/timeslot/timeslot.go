// Package timeslot provides the time-of-day value type used by the booking
// engine. Times are parsed once from HH:MM into minutes since midnight and
// compared numerically from then on; callers never compare raw strings.
package timeslot

import (
	"errors"
	"fmt"
	"time"
)

var ErrBadTime = errors.New("time must be in HH:MM format")

const layout = "15:04"

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int

// Parse converts an HH:MM string into a TimeOfDay. Parsing goes through
// time.Parse so a value like "8:99" or "0800" is rejected instead of being
// silently truncated by an integer parse.
func Parse(s string) (TimeOfDay, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewInterval parses both endpoints. It does not require End > Start;
// interval validity is the caller's precondition check.
func NewInterval(start, end string) (Interval, error) {
	s, err := Parse(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

// Valid reports whether the interval is non-empty, i.e. End is strictly
// after Start.
func (i Interval) Valid() bool {
	return i.End > i.Start
}

// Overlaps reports whether two half-open intervals intersect. Adjacent
// intervals sharing an endpoint do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}
