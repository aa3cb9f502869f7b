package completion

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListConfirmedEndedBefore(ctx context.Context, now time.Time) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, next domain.BookingStatus, reason *string) (*domain.Booking, error)
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType events.Type, booking *domain.Booking) error
}

// Metrics интерфейс для учёта исходов
type Metrics interface {
	IncBookingOutcome(outcome string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider текущее время в часовом поясе салона
type RealTimeProvider struct {
	Location *time.Location
}

func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
