package bookings

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, next domain.BookingStatus, reason *string) (*domain.Booking, error)
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType events.Type, booking *domain.Booking) error
}

// Metrics интерфейс для учёта исходов операций
type Metrics interface {
	IncBookingOutcome(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
