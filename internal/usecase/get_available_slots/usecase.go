package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
)

// UseCase use case для получения доступных слотов для бронирования
// Только читает ledger и не берёт блокировок: результат может устареть к моменту бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	hours        domain.BusinessHours
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	hours domain.BusinessHours,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		hours:        hours,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s, stylist=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat), formatStylist(req.StylistID))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Определяем стилистов, среди которых ищем свободного
	stylists, err := uc.resolveStylists(ctx, service, req.StylistID)
	if err != nil {
		return nil, err
	}

	// 5. Валидация даты
	if err := scheduling.ValidateDate(req.Date, now, uc.hours.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		if errors.Is(err, scheduling.ErrDateTooFarInFuture) {
			return nil, fmt.Errorf("%w: %v", ErrDateTooFarInFuture, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	response := &Response{
		Date:            domain.DateOnly(req.Date),
		ServiceID:       service.ID,
		StylistID:       req.StylistID,
		DurationMinutes: service.DurationMinutes,
		Slots:           []Slot{},
	}

	// 6. Салон закрыт
	if uc.hours.IsClosedOn(req.Date) {
		uc.logger.Info("GetAvailableSlots: salon is closed on %s", req.Date.Format(domain.DateFormat))
		response.Closed = true
		return response, nil
	}

	// 7. Генерируем временные слоты и отбрасываем слишком ранние для сегодняшнего дня
	candidates, err := scheduling.GenerateSlots(uc.hours, service.DurationMinutes, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}
	candidates = scheduling.FilterByNotice(candidates, req.Date, now, uc.hours.MinBookingNoticeMinutes)

	// 8. Получаем активные бронирования нужных стилистов на эту дату
	var bookings []*domain.Booking
	if len(stylists) > 0 {
		bookings, err = uc.bookingRepo.ListActive(ctx, req.Date, scheduling.StylistIDs(stylists))
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
			return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}
	}

	// 9. Вычисляем доступность для каждого слота
	resolved, err := scheduling.Resolve(req.Date, candidates, service.DurationMinutes, stylists, bookings)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve availability: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve availability: %v", ErrInternal, err)
	}

	for _, slot := range resolved {
		response.Slots = append(response.Slots, Slot{
			StartTime:      slot.StartTime,
			Available:      slot.Available,
			FreeStylistIDs: slot.FreeStylistIDs,
		})
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%d, date=%s",
		len(response.Slots), service.ID, req.Date.Format(domain.DateFormat))

	return response, nil
}

// resolveStylists возвращает запрошенного стилиста или всех квалифицированных при отсутствии предпочтений
func (uc *UseCase) resolveStylists(ctx context.Context, service *domain.Service, stylistID *int64) ([]*domain.Stylist, error) {
	if stylistID != nil {
		stylist, err := uc.catalogRepo.GetStylist(ctx, *stylistID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStylistNotFound) {
				uc.logger.Warn("GetAvailableSlots: stylist id=%d not found", *stylistID)
				return nil, ErrStylistNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get stylist id=%d: %v", *stylistID, err)
			return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
		}
		if !stylist.CanPerform(service) {
			uc.logger.Warn("GetAvailableSlots: stylist id=%d cannot perform service id=%d", stylist.ID, service.ID)
			return nil, ErrStylistNotQualified
		}
		return []*domain.Stylist{stylist}, nil
	}

	all, err := uc.catalogRepo.ListStylists(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list stylists: %v", err)
		return nil, fmt.Errorf("%w: failed to list stylists: %v", ErrInternal, err)
	}

	qualified := scheduling.Qualified(service, all)
	if len(qualified) == 0 {
		// Без квалифицированных стилистов все слоты будут недоступны
		uc.logger.Warn("GetAvailableSlots: no stylist performs category %q", service.Category)
	}
	return qualified, nil
}

func formatStylist(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}
