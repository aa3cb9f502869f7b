package events

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Type тип события жизненного цикла бронирования
type Type string

const (
	TypeBookingCreated   Type = "created"
	TypeBookingConfirmed Type = "confirmed"
	TypeBookingCancelled Type = "cancelled"
	TypeBookingCompleted Type = "completed"
)

// TypeForStatus возвращает тип события для нового статуса
func TypeForStatus(status domain.BookingStatus) (Type, bool) {
	switch status {
	case domain.StatusConfirmed:
		return TypeBookingConfirmed, true
	case domain.StatusCancelled:
		return TypeBookingCancelled, true
	case domain.StatusCompleted:
		return TypeBookingCompleted, true
	}
	return "", false
}

// BookingEvent тело сообщения о бронировании
type BookingEvent struct {
	EventID            string    `json:"event_id"`
	EventType          string    `json:"event_type"`
	OccurredAt         time.Time `json:"occurred_at"`
	BookingID          int64     `json:"booking_id"`
	UserID             int64     `json:"user_id"`
	ServiceID          int64     `json:"service_id"`
	StylistID          int64     `json:"stylist_id"`
	Date               string    `json:"date"`
	StartTime          string    `json:"start_time"`
	DurationMinutes    int       `json:"duration_minutes"`
	Status             string    `json:"status"`
	ServiceName        string    `json:"service_name"`
	ServicePrice       float64   `json:"service_price"`
	CancellationReason *string   `json:"cancellation_reason,omitempty"`
}
