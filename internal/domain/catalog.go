package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Service is a bookable salon service
type Service struct {
	ID              int64
	Name            string
	Description     string
	DurationMinutes int
	Price           float64
	Category        string
	ImageURL        *string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DaySchedule is a stylist's working window on one weekday
type DaySchedule struct {
	Open  types.TimeString
	Close types.TimeString
}

// Interval returns the working window in minutes of the day
func (d DaySchedule) Interval() (Interval, error) {
	open, err := d.Open.Minutes()
	if err != nil {
		return Interval{}, err
	}
	closeAt, err := d.Close.Minutes()
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: open, End: closeAt}, nil
}

// WeeklySchedule maps weekdays to working windows; a missing weekday is a day off
type WeeklySchedule map[time.Weekday]DaySchedule

// Stylist performs services
type Stylist struct {
	ID          int64
	Name        string
	Email       string
	Phone       *string
	Specialties []string
	Bio         *string
	Rating      *float64

	// WorkingHours is optional; nil means the stylist works whenever the salon is open
	WorkingHours WeeklySchedule

	CreatedAt time.Time
}

// CanPerform returns true if the stylist's specialties include the service category
func (s *Stylist) CanPerform(service *Service) bool {
	for _, specialty := range s.Specialties {
		if strings.EqualFold(strings.TrimSpace(specialty), strings.TrimSpace(service.Category)) {
			return true
		}
	}
	return false
}

// WorksDuring reports whether the interval on the given date lies inside the stylist's hours
func (s *Stylist) WorksDuring(date time.Time, slot Interval) bool {
	if s.WorkingHours == nil {
		return true
	}
	day, ok := s.WorkingHours[date.Weekday()]
	if !ok {
		return false
	}
	window, err := day.Interval()
	if err != nil {
		return false
	}
	return window.Contains(slot)
}
