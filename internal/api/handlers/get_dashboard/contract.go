package get_dashboard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
)

type BookingService interface {
	Dashboard(ctx context.Context, actor domain.Actor, date time.Time) (*models.DashboardResponse, error)
}

// TimeProvider источник текущей даты, когда date не указана
type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
