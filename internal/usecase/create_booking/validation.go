package create_booking

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StylistID != nil && *req.StylistID <= 0 {
		return fmt.Errorf("%w: stylistID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateSchedule проверяет дату, рабочий день, сетку слотов и минимальное время до начала
func validateSchedule(hours domain.BusinessHours, durationMinutes int, date time.Time, start types.TimeString, now time.Time) error {
	if err := scheduling.ValidateDate(date, now, hours.AdvanceBookingDays); err != nil {
		if errors.Is(err, scheduling.ErrDateTooFarInFuture) {
			return fmt.Errorf("%w: %v", ErrDateTooFarInFuture, err)
		}
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	if hours.IsClosedOn(date) {
		return ErrSalonClosed
	}

	onGrid, err := scheduling.IsOnGrid(hours, durationMinutes, date, start)
	if err != nil {
		return fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}
	if !onGrid {
		return fmt.Errorf("%w: %s is not a valid start for a %d minute service", ErrInvalidTimeSlot, start, durationMinutes)
	}

	if len(scheduling.FilterByNotice([]types.TimeString{start}, date, now, hours.MinBookingNoticeMinutes)) == 0 {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, hours.MinBookingNoticeMinutes)
	}

	return nil
}
