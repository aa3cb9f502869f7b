package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/booking"
)

// BookingRepository ledger бронирований в памяти процесса
// Используется в тестах и при storage.driver = "memory"
// Атомарность проверки и вставки обеспечивается блокировкой на уровне usecase
type BookingRepository struct {
	mu       sync.RWMutex
	nextID   int64
	bookings map[int64]*domain.Booking
	now      func() time.Time
}

// NewBookingRepository создает пустой ledger
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		nextID:   1,
		bookings: make(map[int64]*domain.Booking),
		now:      time.Now,
	}
}

// Create сохраняет бронирование и возвращает его копию с присвоенным ID
func (r *BookingRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if !booking.Status.IsActive() {
		return nil, fmt.Errorf("%w: %q", bookingRepo.ErrInvalidStatus, booking.Status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := booking.Clone()
	stored.ID = r.nextID
	stored.BookingDate = domain.DateOnly(stored.BookingDate)
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt
	r.nextID++

	r.bookings[stored.ID] = stored
	return stored.Clone(), nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b.Clone(), nil
}

// ListActive возвращает активные бронирования на дату, пустой stylistIDs означает всех стилистов
func (r *BookingRepository) ListActive(_ context.Context, date time.Time, stylistIDs []int64) ([]*domain.Booking, error) {
	wanted := make(map[int64]struct{}, len(stylistIDs))
	for _, id := range stylistIDs {
		wanted[id] = struct{}{}
	}

	return r.collect(func(b *domain.Booking) bool {
		if !b.IsActive() || !domain.SameDay(b.BookingDate, date) {
			return false
		}
		if len(wanted) == 0 {
			return true
		}
		_, ok := wanted[b.StylistID]
		return ok
	}, byStylistAndTime), nil
}

// ListByUser возвращает бронирования пользователя, новые первыми
func (r *BookingRepository) ListByUser(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return r.collect(func(b *domain.Booking) bool {
		if b.UserID != userID {
			return false
		}
		return status == nil || b.Status == *status
	}, newestFirst), nil
}

// ListWithFilter возвращает бронирования, подходящие под фильтр, в хронологическом порядке
func (r *BookingRepository) ListWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	return r.collect(filter.Matches, chronological), nil
}

// ListConfirmedEndedBefore возвращает подтверждённые бронирования, закончившиеся не позже now
func (r *BookingRepository) ListConfirmedEndedBefore(_ context.Context, now time.Time) ([]*domain.Booking, error) {
	return r.collect(func(b *domain.Booking) bool {
		if b.Status != domain.StatusConfirmed {
			return false
		}
		end, err := endsAt(b, now.Location())
		if err != nil {
			return false
		}
		return !end.After(now)
	}, chronological), nil
}

// UpdateStatus переводит бронирование в статус next по таблице переходов
func (r *BookingRepository) UpdateStatus(_ context.Context, id int64, next domain.BookingStatus, reason *string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if !b.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", bookingRepo.ErrInvalidTransition, b.Status, next)
	}

	now := r.now()
	b.Status = next
	b.UpdatedAt = now
	if next == domain.StatusCancelled {
		if reason != nil {
			value := *reason
			b.CancellationReason = &value
		}
		b.CancelledAt = &now
	}

	return b.Clone(), nil
}

// Len количество записей в ledger
func (r *BookingRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bookings)
}

func (r *BookingRepository) collect(match func(*domain.Booking) bool, less func(a, b *domain.Booking) bool) []*domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if match(b) {
			result = append(result, b.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool { return less(result[i], result[j]) })
	return result
}

func endsAt(b *domain.Booking, loc *time.Location) (time.Time, error) {
	interval, err := b.Interval()
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := b.BookingDate.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(interval.End) * time.Minute), nil
}

func chronological(a, b *domain.Booking) bool {
	if !a.BookingDate.Equal(b.BookingDate) {
		return a.BookingDate.Before(b.BookingDate)
	}
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	return a.ID < b.ID
}

func newestFirst(a, b *domain.Booking) bool {
	return chronological(b, a)
}

func byStylistAndTime(a, b *domain.Booking) bool {
	if a.StylistID != b.StylistID {
		return a.StylistID < b.StylistID
	}
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	return a.ID < b.ID
}
