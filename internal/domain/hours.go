package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// BusinessHours is the salon-wide booking calendar configuration
type BusinessHours struct {
	Open                    types.TimeString
	Close                   types.TimeString
	SlotStepMinutes         int
	ClosedWeekdays          []time.Weekday
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
}

// DefaultBusinessHours returns 09:00-18:00 with a 30 minute grid, open every day
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		Open:                    DefaultOpenTime,
		Close:                   DefaultCloseTime,
		SlotStepMinutes:         DefaultSlotStepMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// IsClosedOn returns true if the salon does not work on the date's weekday
func (h BusinessHours) IsClosedOn(date time.Time) bool {
	for _, wd := range h.ClosedWeekdays {
		if date.Weekday() == wd {
			return true
		}
	}
	return false
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (h BusinessHours) HasAdvanceBookingLimit() bool {
	return h.AdvanceBookingDays > 0
}
