package domain

// Default business hours
const (
	DefaultOpenTime                = "09:00"
	DefaultCloseTime               = "18:00"
	DefaultSlotStepMinutes         = 30
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60
)

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 240
	MaxAdvanceBookingDays       = 365
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxServiceNameLength        = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that occupy a stylist's time
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses terminal statuses, ignored by availability
var InactiveStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
}
