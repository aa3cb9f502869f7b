package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Interval is a half-open [Start, End) range in minutes of the day
type Interval struct {
	Start int
	End   int
}

// NewInterval builds the interval occupied by something starting at start for duration minutes
func NewInterval(start types.TimeString, durationMinutes int) (Interval, error) {
	if durationMinutes <= 0 {
		return Interval{}, fmt.Errorf("non-positive duration %d", durationMinutes)
	}
	s, err := start.Minutes()
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: s + durationMinutes}, nil
}

// Overlaps reports whether two half-open intervals share at least one instant.
// Touching intervals (one ends where the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains reports whether other lies fully inside i
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

// TimeSlot is a candidate start time with its resolved availability
type TimeSlot struct {
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
	FreeStylistIDs  []int64 // Qualified stylists free for the whole slot, ascending
}

// DateOnly truncates t to midnight in its own location
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
