package manage_services

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
)

type CatalogService interface {
	CreateService(ctx context.Context, actor domain.Actor, req *models.ServiceRequest) (*models.ServiceResponse, error)
	UpdateService(ctx context.Context, actor domain.Actor, id int64, req *models.ServiceRequest) (*models.ServiceResponse, error)
	DeleteService(ctx context.Context, actor domain.Actor, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
