package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// BookingRepository интерфейс ledger бронирований
type BookingRepository interface {
	// ListActive возвращает активные бронирования на дату для указанных стилистов
	ListActive(ctx context.Context, date time.Time, stylistIDs []int64) ([]*domain.Booking, error)
}

// CatalogRepository интерфейс каталога услуг и стилистов
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetStylist(ctx context.Context, id int64) (*domain.Stylist, error)
	ListStylists(ctx context.Context) ([]*domain.Stylist, error)
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
