package catalog

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога услуг и стилистов
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	ListServices(ctx context.Context, category *string, includeInactive bool) ([]*domain.Service, error)
	CreateService(ctx context.Context, service *domain.Service) (*domain.Service, error)
	UpdateService(ctx context.Context, service *domain.Service) (*domain.Service, error)
	DeactivateService(ctx context.Context, id int64) error
	GetStylist(ctx context.Context, id int64) (*domain.Stylist, error)
	ListStylists(ctx context.Context) ([]*domain.Stylist, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
