package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

// Service сервис жизненного цикла бронирований
type Service struct {
	bookingRepo BookingRepository
	publisher   EventPublisher
	metrics     Metrics
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	publisher EventPublisher,
	metricsCollector Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		publisher:   publisher,
		metrics:     metricsCollector,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только свои бронирования, администратор любые
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !canAccess(booking, actor) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Разделяет её на предстоящие и прошедшие, опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.UserBookingsResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.ListByUser(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromUserBookings(bookings), nil
}

// ListBookings получает бронирования салона с фильтрацией
// Доступно только администратору
//
// Примеры использования:
// - Все активные бронирования: пустой запрос
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Бронирования стилиста: указать StylistID
// - Включая завершённые и отменённые: IncludeInactive = true
func (s *Service) ListBookings(ctx context.Context, actor domain.Actor, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("ListBookings: fetching bookings by user=%d", actor.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.StylistID != nil {
		logMsg += fmt.Sprintf(", stylist=%d", *req.StylistID)
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if !actor.IsAdmin() {
		s.logger.Warn("ListBookings: user=%d is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid filter: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Dashboard собирает сводку администратора за день
// Выручка считается по снимку цены завершённых бронирований
func (s *Service) Dashboard(ctx context.Context, actor domain.Actor, date time.Time) (*models.DashboardResponse, error) {
	s.logger.Info("Dashboard: building dashboard for date=%s by user=%d", date.Format(domain.DateFormat), actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Dashboard: user=%d is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	day := domain.DateOnly(date)
	bookings, err := s.bookingRepo.ListWithFilter(ctx, domain.BookingsFilter{
		StartDate:       &day,
		EndDate:         &day,
		IncludeInactive: true,
	})
	if err != nil {
		s.logger.Error("Dashboard: repository error for date=%s: %v", day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: Dashboard - repository error: %v", ErrInternal, err)
	}

	return models.NewDashboard(day, bookings), nil
}

// Cancel отменяет бронирование
// Отменить может владелец бронирования или администратор
// Права проверяются до проверки статуса, чужое бронирование не изменяется
func (s *Service) Cancel(ctx context.Context, bookingID int64, actor domain.Actor, reason string) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, actor.UserID)

	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	// 1. Получаем бронирование
	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права доступа
	if !canAccess(booking, actor) {
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", actor.UserID, bookingID)
		return nil, ErrAccessDenied
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	// 3. Меняем статус
	return s.transition(ctx, "Cancel", booking, domain.StatusCancelled, reasonPtr)
}

// Approve подтверждает бронирование, доступно только администратору
func (s *Service) Approve(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error) {
	return s.adminTransition(ctx, "Approve", bookingID, actor, domain.StatusConfirmed)
}

// Complete отмечает бронирование выполненным, доступно только администратору
func (s *Service) Complete(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error) {
	return s.adminTransition(ctx, "Complete", bookingID, actor, domain.StatusCompleted)
}

func (s *Service) adminTransition(
	ctx context.Context,
	op string,
	bookingID int64,
	actor domain.Actor,
	next domain.BookingStatus,
) (*models.BookingResponse, error) {
	s.logger.Info("%s: updating booking id=%d to status=%s by user=%d", op, bookingID, next, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("%s: user=%d is not an admin", op, actor.UserID)
		return nil, ErrAccessDenied
	}

	booking, err := s.getBooking(ctx, op, bookingID)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, op, booking, next, nil)
}

// transition переводит бронирование в новый статус
// Хранилище повторно проверяет исходный статус, поэтому конкурентная смена статуса даёт ErrInvalidTransition
func (s *Service) transition(
	ctx context.Context,
	op string,
	booking *domain.Booking,
	next domain.BookingStatus,
	reason *string,
) (*models.BookingResponse, error) {
	if !booking.Status.CanTransitionTo(next) {
		s.logger.Warn("%s: booking id=%d cannot move from %s to %s", op, booking.ID, booking.Status, next)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, booking.ID, next, reason)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("%s: booking id=%d not found during update", op, booking.ID)
			return nil, ErrBookingNotFound
		case errors.Is(err, bookingRepo.ErrInvalidTransition):
			s.logger.Warn("%s: booking id=%d changed concurrently: %v", op, booking.ID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, booking.ID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.metrics.IncBookingOutcome(outcomeFor(next))
	s.logger.Info("%s: successfully updated booking id=%d to status=%s", op, updated.ID, updated.Status)

	if eventType, ok := events.TypeForStatus(next); ok {
		if err := s.publisher.PublishBookingEvent(ctx, eventType, updated); err != nil {
			s.logger.Warn("%s: failed to publish event for booking id=%d: %v", op, updated.ID, err)
		}
	}

	return models.FromDomainBooking(updated), nil
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// canAccess владелец бронирования или администратор
func canAccess(booking *domain.Booking, actor domain.Actor) bool {
	return actor.IsAdmin() || booking.IsOwnedBy(actor.UserID)
}

func outcomeFor(status domain.BookingStatus) string {
	switch status {
	case domain.StatusConfirmed:
		return metrics.OutcomeConfirmed
	case domain.StatusCompleted:
		return metrics.OutcomeCompleted
	default:
		return metrics.OutcomeCancelled
	}
}
