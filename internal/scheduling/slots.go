package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const minutesPerDay = 24 * 60

// GenerateSlots генерирует все стартовые времена для услуги длительностью durationMinutes на дату
// Слоты идут от открытия с шагом SlotStepMinutes, последний слот должен полностью закончиться до закрытия
// Если длительность не кратна шагу, слоты остаются на сетке, а резервируется полная длительность
func GenerateSlots(hours domain.BusinessHours, durationMinutes int, date time.Time) ([]types.TimeString, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDuration, durationMinutes)
	}
	if hours.SlotStepMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot step must be positive", ErrInvalidHours)
	}

	// Салон не работает в этот день недели
	if hours.IsClosedOn(date) {
		return []types.TimeString{}, nil
	}

	open, err := hours.Open.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrInvalidHours, err)
	}
	closeAt, err := hours.Close.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: close: %v", ErrInvalidHours, err)
	}

	slots := make([]types.TimeString, 0)
	for start := open; start+durationMinutes <= closeAt; start += hours.SlotStepMinutes {
		slot, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// FilterByNotice убирает слоты, которые начинаются раньше now + noticeMinutes
// Фильтр применяется только когда date совпадает с текущим днём
func FilterByNotice(slots []types.TimeString, date, now time.Time, noticeMinutes int) []types.TimeString {
	if !domain.SameDay(date, now) {
		return slots
	}

	minAllowed := now.Hour()*60 + now.Minute() + noticeMinutes

	result := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		start, err := slot.Minutes()
		if err != nil {
			continue
		}
		if start >= minAllowed && start < minutesPerDay {
			result = append(result, slot)
		}
	}
	return result
}

// IsOnGrid проверяет, что start является одним из сгенерированных слотов
func IsOnGrid(hours domain.BusinessHours, durationMinutes int, date time.Time, start types.TimeString) (bool, error) {
	slots, err := GenerateSlots(hours, durationMinutes, date)
	if err != nil {
		return false, err
	}
	for _, slot := range slots {
		if slot == start {
			return true, nil
		}
	}
	return false, nil
}

// ValidateDate проверяет, что дату можно бронировать относительно now
// advanceBookingDays = 0 означает отсутствие ограничения
func ValidateDate(date, now time.Time, advanceBookingDays int) error {
	// Сравниваем календарные дни, часовой пояс now задаёт "сегодня"
	dateOnly := domain.DateOnly(date)
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, date.Location())

	if dateOnly.Before(today) {
		return ErrDateInPast
	}

	if advanceBookingDays <= 0 {
		return nil
	}

	maxDate := today.AddDate(0, 0, advanceBookingDays)
	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}
