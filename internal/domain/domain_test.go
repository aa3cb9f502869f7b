package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSourcesFor(t *testing.T) {
	assert.Equal(t, []BookingStatus{StatusPending}, SourcesFor(StatusConfirmed))
	assert.Equal(t, []BookingStatus{StatusConfirmed}, SourcesFor(StatusCompleted))
	assert.Equal(t, []BookingStatus{StatusPending, StatusConfirmed}, SourcesFor(StatusCancelled))
	assert.Empty(t, SourcesFor(StatusPending))
}

func TestInterval_Overlaps(t *testing.T) {
	booked, err := NewInterval("10:00", 45)
	require.NoError(t, err)

	tests := []struct {
		name  string
		start string
		dur   int
		want  bool
	}{
		{name: "inside", start: "10:15", dur: 30, want: true},
		{name: "touching end", start: "10:45", dur: 30, want: false},
		{name: "touching start", start: "09:30", dur: 30, want: false},
		{name: "covering", start: "09:30", dur: 120, want: true},
		{name: "partial head", start: "09:45", dur: 30, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other, err := NewInterval(types.TimeString(tt.start), tt.dur)
			require.NoError(t, err)
			assert.Equal(t, tt.want, booked.Overlaps(other))
			assert.Equal(t, tt.want, other.Overlaps(booked))
		})
	}
}

func TestNewInterval_RejectsNonPositiveDuration(t *testing.T) {
	_, err := NewInterval("10:00", 0)
	assert.Error(t, err)
}

func TestStylist_CanPerform(t *testing.T) {
	stylist := &Stylist{Specialties: []string{"Hair", " grooming "}}

	assert.True(t, stylist.CanPerform(&Service{Category: "hair"}))
	assert.True(t, stylist.CanPerform(&Service{Category: "Grooming"}))
	assert.False(t, stylist.CanPerform(&Service{Category: "Nails"}))
}

func TestStylist_WorksDuring(t *testing.T) {
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	slot, err := NewInterval("16:30", 60)
	require.NoError(t, err)

	assert.True(t, (&Stylist{}).WorksDuring(monday, slot))

	partTime := &Stylist{WorkingHours: WeeklySchedule{
		time.Monday: {Open: "09:00", Close: "17:00"},
	}}
	assert.False(t, partTime.WorksDuring(monday, slot))
	assert.False(t, partTime.WorksDuring(monday.AddDate(0, 0, 1), Interval{Start: 600, End: 630}))

	early, err := NewInterval("16:00", 60)
	require.NoError(t, err)
	assert.True(t, partTime.WorksDuring(monday, early))
}

func TestBookingsFilter_Matches(t *testing.T) {
	day := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	b := &Booking{UserID: 7, StylistID: 2, BookingDate: day, Status: StatusCancelled}

	assert.False(t, BookingsFilter{}.Matches(b))
	assert.True(t, BookingsFilter{IncludeInactive: true}.Matches(b))

	cancelled := StatusCancelled
	assert.True(t, BookingsFilter{Status: &cancelled}.Matches(b))

	next := day.AddDate(0, 0, 1)
	assert.False(t, BookingsFilter{StartDate: &next, IncludeInactive: true}.Matches(b))

	other := int64(8)
	assert.False(t, BookingsFilter{UserID: &other, IncludeInactive: true}.Matches(b))
}

func TestBusinessHours_IsClosedOn(t *testing.T) {
	hours := DefaultBusinessHours()
	hours.ClosedWeekdays = []time.Weekday{time.Sunday}

	assert.True(t, hours.IsClosedOn(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)))
	assert.False(t, hours.IsClosedOn(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
}
