package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// ListBookingsRequest запрос администратора на получение бронирований
type ListBookingsRequest struct {
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	StylistID       *int64     `json:"stylistId,omitempty"`       // Фильтр по стилисту (опционально)
	UserID          *int64     `json:"userId,omitempty"`          // Фильтр по клиенту (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить завершённые и отменённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		UserID:          r.UserID,
		StylistID:       r.StylistID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return filter, errors.New("endDate is before startDate")
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"userId"`
	ServiceID       int64  `json:"serviceId"`
	StylistID       int64  `json:"stylistId"`
	BookingDate     string `json:"bookingDate"` // "2025-10-15"
	StartTime       string `json:"startTime"`   // "10:00"
	EndTime         string `json:"endTime"`     // "10:45"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	// Снимок услуги на момент бронирования
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`
	Notes        *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// UserBookingsResponse история бронирований пользователя
type UserBookingsResponse struct {
	Upcoming []BookingResponse `json:"upcoming"` // pending и confirmed, ближайшие первыми
	Past     []BookingResponse `json:"past"`     // completed и cancelled, новые первыми
}

// DashboardResponse сводка администратора за день
type DashboardResponse struct {
	Date           string            `json:"date"`
	Bookings       []BookingResponse `json:"bookings"`
	TotalBookings  int               `json:"totalBookings"`
	PendingCount   int               `json:"pendingCount"`
	ConfirmedCount int               `json:"confirmedCount"`
	CompletedCount int               `json:"completedCount"`
	CancelledCount int               `json:"cancelledCount"`
	Revenue        float64           `json:"revenue"` // Сумма цен завершённых бронирований
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		ServiceID:          b.ServiceID,
		StylistID:          b.StylistID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		ServiceName:        b.ServiceName,
		ServicePrice:       b.ServicePrice,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if end, err := b.EndTime(); err == nil {
		resp.EndTime = end.String()
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	return &BookingListResponse{Bookings: toResponses(bookings)}
}

func toResponses(bookings []*domain.Booking) []BookingResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			result = append(result, *bookingResp)
		}
	}
	return result
}

// FromUserBookings раскладывает историю пользователя на предстоящие и прошедшие
// Ожидает бронирования в порядке от новых к старым
func FromUserBookings(bookings []*domain.Booking) *UserBookingsResponse {
	upcoming := make([]*domain.Booking, 0)
	past := make([]*domain.Booking, 0)

	for _, b := range bookings {
		if b.IsActive() {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}

	// Предстоящие показываем от ближайшего
	for i, j := 0, len(upcoming)-1; i < j; i, j = i+1, j-1 {
		upcoming[i], upcoming[j] = upcoming[j], upcoming[i]
	}

	return &UserBookingsResponse{
		Upcoming: toResponses(upcoming),
		Past:     toResponses(past),
	}
}

// NewDashboard собирает дневную сводку
func NewDashboard(date time.Time, bookings []*domain.Booking) *DashboardResponse {
	resp := &DashboardResponse{
		Date:          date.Format(domain.DateFormat),
		Bookings:      toResponses(bookings),
		TotalBookings: len(bookings),
	}

	for _, b := range bookings {
		switch b.Status {
		case domain.StatusPending:
			resp.PendingCount++
		case domain.StatusConfirmed:
			resp.ConfirmedCount++
		case domain.StatusCompleted:
			resp.CompletedCount++
			resp.Revenue += b.ServicePrice
		case domain.StatusCancelled:
			resp.CancelledCount++
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
