package scheduling

import "errors"

var (
	// ErrInvalidHours возвращается при некорректной конфигурации рабочих часов
	ErrInvalidHours = errors.New("scheduling: invalid business hours")

	// ErrInvalidDuration возвращается при неположительной длительности услуги
	ErrInvalidDuration = errors.New("scheduling: non-positive duration")

	// ErrDateInPast возвращается, когда дата раньше сегодняшнего дня
	ErrDateInPast = errors.New("scheduling: date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("scheduling: date is too far in the future")
)
