package timeslot

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"08:30", 510, false},
		{"17:00", 1020, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"8:99", 0, true},
		{"0800", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tc := range tests {
		got, err := Parse(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %d", tc.input, got)
			} else if !errors.Is(err, ErrBadTime) {
				t.Errorf("Parse(%q): error does not wrap ErrBadTime: %v", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	if got := TimeOfDay(480).String(); got != "08:00" {
		t.Errorf("String() = %q, want %q", got, "08:00")
	}
	if got := TimeOfDay(1439).String(); got != "23:59" {
		t.Errorf("String() = %q, want %q", got, "23:59")
	}
}

func mustInterval(t *testing.T, start, end string) Interval {
	t.Helper()
	i, err := NewInterval(start, end)
	if err != nil {
		t.Fatalf("NewInterval(%q, %q): %v", start, end, err)
	}
	return i
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{"identical", Interval{600, 720}, Interval{600, 720}, true},
		{"fully contained", Interval{600, 720}, Interval{630, 690}, true},
		{"fully containing", Interval{600, 720}, Interval{540, 780}, true},
		{"partial left", Interval{600, 720}, Interval{540, 660}, true},
		{"partial right", Interval{600, 720}, Interval{660, 780}, true},
		{"adjacent before", Interval{600, 720}, Interval{480, 600}, false},
		{"adjacent after", Interval{600, 720}, Interval{720, 840}, false},
		{"disjoint", Interval{600, 720}, Interval{780, 840}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			// Overlap is symmetric
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

// Same-hour intervals must conflict. A truncating integer parse of "08:00"
// and "08:30" yields 8 for both endpoints and hides this overlap.
func TestOverlapsSameHourMinutePrecision(t *testing.T) {
	existing := mustInterval(t, "08:00", "10:00")
	proposed := mustInterval(t, "08:30", "09:30")

	if !existing.Overlaps(proposed) {
		t.Error("expected [08:00,10:00) to overlap [08:30,09:30)")
	}
}

func TestIntervalValid(t *testing.T) {
	if mustInterval(t, "15:00", "14:00").Valid() {
		t.Error("end before start must be invalid")
	}
	if mustInterval(t, "10:00", "10:00").Valid() {
		t.Error("zero-length interval must be invalid")
	}
	if !mustInterval(t, "10:00", "11:00").Valid() {
		t.Error("expected [10:00,11:00) to be valid")
	}
}
