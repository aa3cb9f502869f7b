package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
)

// BookingRepository интерфейс ledger бронирований
type BookingRepository interface {
	ListActive(ctx context.Context, date time.Time, stylistIDs []int64) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CatalogRepository интерфейс каталога услуг и стилистов
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetStylist(ctx context.Context, id int64) (*domain.Stylist, error)
	ListStylists(ctx context.Context) ([]*domain.Stylist, error)
}

// Locker блокировка по ключам (дата, стилист)
// Ключи захватываются в отсортированном порядке, возвращается функция освобождения
type Locker interface {
	Lock(ctx context.Context, keys ...string) (func(), error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события о бронированиях
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType events.Type, booking *domain.Booking) error
}

// Metrics счётчики исходов бронирования
type Metrics interface {
	IncBookingOutcome(outcome string)
	ObserveLockWait(duration time.Duration)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
// Location задаёт часовой пояс салона, nil - локальный пояс процесса
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location != nil {
		return time.Now().In(p.Location)
	}
	return time.Now()
}
