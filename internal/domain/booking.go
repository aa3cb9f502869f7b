package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// transitions lists the statuses reachable from each non-terminal status
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsActive returns true if bookings in this status occupy the stylist's time
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true if no further transitions are allowed
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the status may change to next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SourcesFor returns the statuses from which next is reachable
func SourcesFor(next BookingStatus) []BookingStatus {
	sources := make([]BookingStatus, 0, 2)
	for _, from := range []BookingStatus{StatusPending, StatusConfirmed} {
		if from.CanTransitionTo(next) {
			sources = append(sources, from)
		}
	}
	return sources
}

// Booking represents a salon appointment
type Booking struct {
	ID              int64
	UserID          int64
	ServiceID       int64
	StylistID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus

	// Snapshot of the service at booking time
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking counts towards conflicts
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// Interval returns the occupied [start, end) interval in minutes of the day
func (b *Booking) Interval() (Interval, error) {
	return NewInterval(b.StartTime, b.DurationMinutes)
}

// EndTime returns the time the booking ends
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// IsOwnedBy returns true if the booking belongs to the user
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID == userID
}

// Clone returns a deep copy of the booking
func (b *Booking) Clone() *Booking {
	c := *b
	if b.Notes != nil {
		notes := *b.Notes
		c.Notes = &notes
	}
	if b.CancellationReason != nil {
		reason := *b.CancellationReason
		c.CancellationReason = &reason
	}
	if b.CancelledAt != nil {
		at := *b.CancelledAt
		c.CancelledAt = &at
	}
	return &c
}

// BookingsFilter filters ledger listings
type BookingsFilter struct {
	UserID          *int64         // Bookings of a single user
	StylistID       *int64         // Bookings of a single stylist
	StartDate       *time.Time     // Inclusive lower bound on booking date
	EndDate         *time.Time     // Inclusive upper bound on booking date
	Status          *BookingStatus // Exact status
	IncludeInactive bool           // Include completed and cancelled bookings when Status is nil
}

// Matches reports whether the booking passes the filter
func (f BookingsFilter) Matches(b *Booking) bool {
	if f.UserID != nil && b.UserID != *f.UserID {
		return false
	}
	if f.StylistID != nil && b.StylistID != *f.StylistID {
		return false
	}
	if f.StartDate != nil && DateOnly(b.BookingDate).Before(DateOnly(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && DateOnly(b.BookingDate).After(DateOnly(*f.EndDate)) {
		return false
	}
	if f.Status != nil {
		return b.Status == *f.Status
	}
	return f.IncludeInactive || b.IsActive()
}
