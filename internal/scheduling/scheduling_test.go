package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Вторник
var testDate = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

func defaultHours() domain.BusinessHours {
	return domain.BusinessHours{
		Open:                    "09:00",
		Close:                   "18:00",
		SlotStepMinutes:         30,
		MinBookingNoticeMinutes: 60,
	}
}

func booking(stylistID int64, start types.TimeString, duration int, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		StylistID:       stylistID,
		BookingDate:     testDate,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
	}
}

func TestGenerateSlots_ClassicHaircut(t *testing.T) {
	slots, err := GenerateSlots(defaultHours(), 45, testDate)
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	assert.Equal(t, types.TimeString("09:00"), slots[0])
	assert.Equal(t, types.TimeString("17:00"), slots[len(slots)-1])
	assert.NotContains(t, slots, types.TimeString("17:30"))
	assert.Len(t, slots, 17)
}

func TestGenerateSlots_Bounds(t *testing.T) {
	hours := defaultHours()
	open, _ := hours.Open.Minutes()
	closeAt, _ := hours.Close.Minutes()

	for _, duration := range []int{15, 30, 45, 60, 90, 120, 540} {
		slots, err := GenerateSlots(hours, duration, testDate)
		require.NoError(t, err)

		for _, slot := range slots {
			start, err := slot.Minutes()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, start, open)
			assert.LessOrEqual(t, start+duration, closeAt, "duration=%d slot=%s", duration, slot)
			assert.Zero(t, (start-open)%hours.SlotStepMinutes)
		}
	}
}

func TestGenerateSlots_EdgeCases(t *testing.T) {
	t.Run("longer than the working day", func(t *testing.T) {
		slots, err := GenerateSlots(defaultHours(), 600, testDate)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("closed weekday", func(t *testing.T) {
		hours := defaultHours()
		hours.ClosedWeekdays = []time.Weekday{time.Tuesday}
		slots, err := GenerateSlots(hours, 30, testDate)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("non-positive duration", func(t *testing.T) {
		_, err := GenerateSlots(defaultHours(), 0, testDate)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})

	t.Run("zero step", func(t *testing.T) {
		hours := defaultHours()
		hours.SlotStepMinutes = 0
		_, err := GenerateSlots(hours, 30, testDate)
		assert.ErrorIs(t, err, ErrInvalidHours)
	})

	t.Run("deterministic", func(t *testing.T) {
		first, err := GenerateSlots(defaultHours(), 45, testDate)
		require.NoError(t, err)
		second, err := GenerateSlots(defaultHours(), 45, testDate)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestFilterByNotice(t *testing.T) {
	slots := []types.TimeString{"09:00", "09:30", "10:00", "10:30", "11:00"}

	t.Run("same day drops slots inside the notice window", func(t *testing.T) {
		now := time.Date(2026, 10, 20, 9, 10, 0, 0, time.UTC)
		assert.Equal(t, []types.TimeString{"10:30", "11:00"}, FilterByNotice(slots, testDate, now, 60))
	})

	t.Run("other day keeps everything", func(t *testing.T) {
		now := time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)
		assert.Equal(t, slots, FilterByNotice(slots, testDate, now, 60))
	})

	t.Run("late evening leaves nothing", func(t *testing.T) {
		now := time.Date(2026, 10, 20, 23, 30, 0, 0, time.UTC)
		assert.Empty(t, FilterByNotice(slots, testDate, now, 60))
	})
}

func TestIsOnGrid(t *testing.T) {
	ok, err := IsOnGrid(defaultHours(), 45, testDate, "17:00")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsOnGrid(defaultHours(), 45, testDate, "17:30")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = IsOnGrid(defaultHours(), 30, testDate, "10:15")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateDate(t *testing.T) {
	now := time.Date(2026, 10, 20, 15, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateDate(testDate, now, 0))
	assert.NoError(t, ValidateDate(testDate.AddDate(1, 0, 0), now, 0))
	assert.ErrorIs(t, ValidateDate(testDate.AddDate(0, 0, -1), now, 0), ErrDateInPast)
	assert.NoError(t, ValidateDate(testDate.AddDate(0, 0, 30), now, 30))
	assert.ErrorIs(t, ValidateDate(testDate.AddDate(0, 0, 31), now, 30), ErrDateTooFarInFuture)
}

func TestFreeStylists_Overlap(t *testing.T) {
	stylists := []*domain.Stylist{{ID: 1}}
	bookings := []*domain.Booking{booking(1, "10:00", 45, domain.StatusConfirmed)}

	tests := []struct {
		name     string
		start    types.TimeString
		duration int
		free     bool
	}{
		{name: "overlaps the middle", start: "10:15", duration: 30, free: false},
		{name: "same start", start: "10:00", duration: 30, free: false},
		{name: "starts at end", start: "10:45", duration: 30, free: true},
		{name: "ends at start", start: "09:30", duration: 30, free: true},
		{name: "ends inside", start: "09:30", duration: 45, free: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := domain.NewInterval(tt.start, tt.duration)
			require.NoError(t, err)

			free := FreeStylists(testDate, slot, stylists, bookings)
			if tt.free {
				assert.Equal(t, []int64{1}, free)
			} else {
				assert.Empty(t, free)
			}
		})
	}
}

func TestFreeStylists_IgnoresInactiveAndOtherDays(t *testing.T) {
	stylists := []*domain.Stylist{{ID: 1}}
	other := booking(1, "10:00", 60, domain.StatusConfirmed)
	other.BookingDate = testDate.AddDate(0, 0, 1)

	bookings := []*domain.Booking{
		booking(1, "10:00", 60, domain.StatusCancelled),
		booking(1, "10:00", 60, domain.StatusCompleted),
		other,
	}

	slot, err := domain.NewInterval("10:00", 60)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, FreeStylists(testDate, slot, stylists, bookings))
}

func TestFreeStylists_WorkingHours(t *testing.T) {
	stylists := []*domain.Stylist{
		{ID: 2, WorkingHours: domain.WeeklySchedule{time.Tuesday: {Open: "12:00", Close: "18:00"}}},
		{ID: 1},
	}

	morning, err := domain.NewInterval("10:00", 30)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, FreeStylists(testDate, morning, stylists, nil))

	afternoon, err := domain.NewInterval("14:00", 30)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, FreeStylists(testDate, afternoon, stylists, nil))
}

func TestResolve_NoPreference(t *testing.T) {
	stylists := []*domain.Stylist{{ID: 1}, {ID: 2}}
	candidates := []types.TimeString{"10:00", "10:30", "11:00"}

	bookings := []*domain.Booking{
		booking(1, "10:00", 60, domain.StatusConfirmed),
		booking(2, "10:30", 30, domain.StatusPending),
	}

	slots, err := Resolve(testDate, candidates, 30, stylists, bookings)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	// 10:00 - занят только первый стилист
	assert.True(t, slots[0].Available)
	assert.Equal(t, []int64{2}, slots[0].FreeStylistIDs)

	// 10:30 - заняты оба
	assert.False(t, slots[1].Available)
	assert.Empty(t, slots[1].FreeStylistIDs)

	// 11:00 - свободны оба
	assert.True(t, slots[2].Available)
	assert.Equal(t, []int64{1, 2}, slots[2].FreeStylistIDs)
}

func TestResolve_SpecificStylist(t *testing.T) {
	stylists := []*domain.Stylist{{ID: 2}}
	bookings := []*domain.Booking{
		booking(1, "10:00", 60, domain.StatusConfirmed),
		booking(2, "11:00", 45, domain.StatusConfirmed),
	}

	slots, err := Resolve(testDate, []types.TimeString{"10:00", "10:30", "11:30", "12:00"}, 45, stylists, bookings)
	require.NoError(t, err)

	available := make(map[types.TimeString]bool)
	for _, s := range slots {
		available[s.StartTime] = s.Available
	}
	assert.Equal(t, map[types.TimeString]bool{
		"10:00": true,
		"10:30": false,
		"11:30": false,
		"12:00": true,
	}, available)
}

func TestResolve_Idempotent(t *testing.T) {
	stylists := []*domain.Stylist{{ID: 1}, {ID: 2}}
	bookings := []*domain.Booking{booking(1, "10:00", 45, domain.StatusConfirmed)}
	candidates, err := GenerateSlots(defaultHours(), 45, testDate)
	require.NoError(t, err)

	first, err := Resolve(testDate, candidates, 45, stylists, bookings)
	require.NoError(t, err)
	second, err := Resolve(testDate, candidates, 45, stylists, bookings)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLockKeys(t *testing.T) {
	assert.Equal(t, []string{"2026-10-20|1", "2026-10-20|12", "2026-10-20|3"}, LockKeys(testDate, 3, 12, 1))
	assert.Equal(t, "2026-10-20|7", LockKey(testDate, 7))
}

func TestQualified(t *testing.T) {
	service := &domain.Service{Category: "Hair"}
	stylists := []*domain.Stylist{
		{ID: 3, Specialties: []string{"hair"}},
		{ID: 1, Specialties: []string{"Nails"}},
		{ID: 2, Specialties: []string{"Grooming", "Hair"}},
	}

	qualified := Qualified(service, stylists)
	assert.Equal(t, []int64{2, 3}, StylistIDs(qualified))
	assert.Empty(t, Qualified(&domain.Service{Category: "Skincare"}, stylists))
}
