package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

const defaultLockWait = 3 * time.Second

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	locker       Locker
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	hours        domain.BusinessHours
	lockWait     time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	locker Locker,
	txManager TransactionManager,
	publisher EventPublisher,
	metricsCollector Metrics,
	hours domain.BusinessHours,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		locker:       locker,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metricsCollector,
		hours:        hours,
		lockWait:     defaultLockWait,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// WithLockWait задаёт максимальное ожидание блокировки
func (uc *UseCase) WithLockWait(d time.Duration) *UseCase {
	if d > 0 {
		uc.lockWait = d
	}
	return uc
}

// Execute выполняет use case создания бронирования
// Проверка пересечений и вставка выполняются под блокировкой ключей (дата, стилист)
// внутри сериализуемой транзакции, поэтому конкурентные запросы не могут занять один интервал
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, service=%d, stylist=%s, date=%s, time=%s",
		req.UserID, req.ServiceID, formatStylist(req.StylistID), req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.IncBookingOutcome(metrics.OutcomeRejected)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.getService(ctx, req.ServiceID)
	if err != nil {
		uc.recordFailure(err)
		return nil, err
	}

	// 4. Определяем кандидатов: запрошенный стилист или все квалифицированные
	candidates, err := uc.resolveStylists(ctx, service, req.StylistID)
	if err != nil {
		uc.recordFailure(err)
		return nil, err
	}

	// 5. Проверяем дату, сетку слотов и минимальное время до начала
	if err := validateSchedule(uc.hours, service.DurationMinutes, req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateBooking: schedule validation failed: %v", err)
		uc.recordFailure(err)
		return nil, err
	}

	slot, err := domain.NewInterval(req.StartTime, service.DurationMinutes)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to build interval: %v", err)
		return nil, fmt.Errorf("%w: failed to build interval: %v", ErrInternal, err)
	}

	// Если ни один кандидат не работает в это время, брать блокировки бессмысленно
	working := make([]*domain.Stylist, 0, len(candidates))
	for _, s := range candidates {
		if s.WorksDuring(req.Date, slot) {
			working = append(working, s)
		}
	}
	if len(working) == 0 {
		uc.logger.Warn("CreateBooking: no qualified stylist works at %s %s",
			req.Date.Format(domain.DateFormat), req.StartTime)
		uc.metrics.IncBookingOutcome(metrics.OutcomeConflict)
		return nil, ErrSlotNotAvailable
	}
	stylistIDs := scheduling.StylistIDs(working)

	// 6. Захватываем блокировки по всем ключам (дата, стилист) в едином порядке
	unlock, err := uc.lock(ctx, req.Date, stylistIDs)
	if err != nil {
		uc.metrics.IncBookingOutcome(metrics.OutcomeFailed)
		return nil, err
	}
	defer unlock()

	var result *domain.Booking

	// 7. Повторно проверяем ledger и вставляем бронирование в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Получаем актуальные активные бронирования кандидатов (FOR UPDATE в PostgreSQL)
		bookings, err := uc.bookingRepo.ListActive(txCtx, req.Date, stylistIDs)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		// 7.2. Ищем свободного стилиста
		free := scheduling.FreeStylists(req.Date, slot, working, bookings)
		if len(free) == 0 {
			uc.logger.Warn("CreateBooking: slot %s %s overlaps active bookings of stylists %v",
				req.Date.Format(domain.DateFormat), req.StartTime, stylistIDs)
			return ErrSlotNotAvailable
		}

		// 7.3. Создаем бронирование со снимком услуги, без предпочтений назначаем первого свободного
		booking := &domain.Booking{
			UserID:          req.UserID,
			ServiceID:       service.ID,
			StylistID:       free[0],
			BookingDate:     domain.DateOnly(req.Date),
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Конкурентная транзакция другого инстанса заняла интервал
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: serialization failure: %v", err)
			uc.metrics.IncBookingOutcome(metrics.OutcomeConflict)
			return nil, ErrSlotNotAvailable
		}
		uc.recordFailure(err)
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: transaction: %v", ErrInternal, err)
	}

	uc.metrics.IncBookingOutcome(metrics.OutcomeCreated)
	uc.logger.Info("CreateBooking: successfully created booking id=%d, stylist=%d", result.ID, result.StylistID)

	// 8. Публикуем событие, ошибка публикации не отменяет бронирование
	if err := uc.publisher.PublishBookingEvent(ctx, events.TypeBookingCreated, result); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return toResponse(result), nil
}

func (uc *UseCase) getService(ctx context.Context, id int64) (*domain.Service, error) {
	service, err := uc.catalogRepo.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", id)
		return nil, ErrServiceNotFound
	}
	return service, nil
}

// resolveStylists возвращает запрошенного стилиста или всех квалифицированных при отсутствии предпочтений
func (uc *UseCase) resolveStylists(ctx context.Context, service *domain.Service, stylistID *int64) ([]*domain.Stylist, error) {
	if stylistID != nil {
		stylist, err := uc.catalogRepo.GetStylist(ctx, *stylistID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStylistNotFound) {
				uc.logger.Warn("CreateBooking: stylist id=%d not found", *stylistID)
				return nil, ErrStylistNotFound
			}
			uc.logger.Error("CreateBooking: failed to get stylist id=%d: %v", *stylistID, err)
			return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
		}
		if !stylist.CanPerform(service) {
			uc.logger.Warn("CreateBooking: stylist id=%d cannot perform service id=%d", stylist.ID, service.ID)
			return nil, ErrStylistNotQualified
		}
		return []*domain.Stylist{stylist}, nil
	}

	all, err := uc.catalogRepo.ListStylists(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list stylists: %v", err)
		return nil, fmt.Errorf("%w: failed to list stylists: %v", ErrInternal, err)
	}
	return scheduling.Qualified(service, all), nil
}

func (uc *UseCase) lock(ctx context.Context, date time.Time, stylistIDs []int64) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, uc.lockWait)
	defer cancel()

	started := time.Now()
	unlock, err := uc.locker.Lock(lockCtx, scheduling.LockKeys(date, stylistIDs...)...)
	uc.metrics.ObserveLockWait(time.Since(started))
	if err != nil {
		uc.logger.Error("CreateBooking: failed to acquire lock for date=%s stylists=%v: %v",
			date.Format(domain.DateFormat), stylistIDs, err)
		return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
	}
	return unlock, nil
}

func (uc *UseCase) recordFailure(err error) {
	switch {
	case errors.Is(err, ErrSlotNotAvailable):
		uc.metrics.IncBookingOutcome(metrics.OutcomeConflict)
	case errors.Is(err, ErrInternal):
		uc.metrics.IncBookingOutcome(metrics.OutcomeFailed)
	default:
		uc.metrics.IncBookingOutcome(metrics.OutcomeRejected)
	}
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		UserID:          b.UserID,
		ServiceID:       b.ServiceID,
		StylistID:       b.StylistID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		ServicePrice:    b.ServicePrice,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func formatStylist(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}
