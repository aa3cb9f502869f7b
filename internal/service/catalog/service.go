package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
)

// Service сервис каталога услуг и стилистов
type Service struct {
	catalogRepo CatalogRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(catalogRepo CatalogRepository, logger Logger) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// ListServices возвращает активные услуги, опционально только одной категории
// Публичный метод - доступен всем
func (s *Service) ListServices(ctx context.Context, category *string) (*models.ServiceListResponse, error) {
	if category != nil {
		trimmed := strings.TrimSpace(*category)
		if trimmed == "" {
			category = nil
		} else {
			category = &trimmed
		}
	}

	services, err := s.catalogRepo.ListServices(ctx, category, false)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// GetService получает активную услугу по ID
// Публичный метод - доступен всем
func (s *Service) GetService(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	service, err := s.getActiveService(ctx, "GetService", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainService(service), nil
}

// ListStylists возвращает стилистов
// Если указан serviceID, возвращает только квалифицированных для этой услуги
func (s *Service) ListStylists(ctx context.Context, serviceID *int64) (*models.StylistListResponse, error) {
	stylists, err := s.catalogRepo.ListStylists(ctx)
	if err != nil {
		s.logger.Error("ListStylists: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListStylists - repository error: %v", ErrInternal, err)
	}

	if serviceID != nil {
		service, err := s.getActiveService(ctx, "ListStylists", *serviceID)
		if err != nil {
			return nil, err
		}
		stylists = scheduling.Qualified(service, stylists)
	}

	return models.FromDomainStylistList(stylists), nil
}

// GetStylist получает стилиста по ID
func (s *Service) GetStylist(ctx context.Context, id int64) (*models.StylistResponse, error) {
	stylist, err := s.catalogRepo.GetStylist(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStylistNotFound) {
			s.logger.Warn("GetStylist: stylist id=%d not found", id)
			return nil, ErrStylistNotFound
		}
		s.logger.Error("GetStylist: repository error for stylist id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetStylist - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainStylist(stylist), nil
}

// CreateService создает новую услугу
// Доступно только администратору
func (s *Service) CreateService(ctx context.Context, actor domain.Actor, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: creating service name=%q by user=%d", req.Name, actor.UserID)

	// 1. Проверяем права доступа
	if !actor.IsAdmin() {
		s.logger.Warn("CreateService: user=%d is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	// 2. Валидируем входные данные
	if err := validateServiceData(req); err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, err
	}

	// 3. Создаем услугу
	created, err := s.catalogRepo.CreateService(ctx, req.ToDomainService(0))
	if err != nil {
		s.logger.Error("CreateService: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: successfully created service id=%d", created.ID)
	return models.FromDomainService(created), nil
}

// UpdateService полностью обновляет услугу
// Доступно только администратору. Существующие бронирования хранят снимок услуги и не меняются
func (s *Service) UpdateService(ctx context.Context, actor domain.Actor, id int64, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: updating service id=%d by user=%d", id, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("UpdateService: user=%d is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	if err := validateServiceData(req); err != nil {
		s.logger.Warn("UpdateService: validation failed: %v", err)
		return nil, err
	}

	updated, err := s.catalogRepo.UpdateService(ctx, req.ToDomainService(id))
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("UpdateService: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("UpdateService: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateService: successfully updated service id=%d", id)
	return models.FromDomainService(updated), nil
}

// DeleteService мягко удаляет услугу, после чего она недоступна для записи
// Доступно только администратору
func (s *Service) DeleteService(ctx context.Context, actor domain.Actor, id int64) error {
	s.logger.Info("DeleteService: deactivating service id=%d by user=%d", id, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("DeleteService: user=%d is not an admin", actor.UserID)
		return ErrAccessDenied
	}

	if err := s.catalogRepo.DeactivateService(ctx, id); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("DeleteService: service id=%d not found", id)
			return ErrServiceNotFound
		}
		s.logger.Error("DeleteService: repository error for service id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteService: successfully deactivated service id=%d", id)
	return nil
}

func (s *Service) getActiveService(ctx context.Context, op string, id int64) (*domain.Service, error) {
	service, err := s.catalogRepo.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("%s: service id=%d not found", op, id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("%s: repository error for service id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	if !service.IsActive {
		s.logger.Warn("%s: service id=%d is inactive", op, id)
		return nil, ErrServiceNotFound
	}
	return service, nil
}
