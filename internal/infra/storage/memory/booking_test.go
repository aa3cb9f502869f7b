package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var day = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

func newBooking(userID, stylistID int64, date time.Time, start types.TimeString, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		UserID:          userID,
		ServiceID:       1,
		StylistID:       stylistID,
		BookingDate:     date,
		StartTime:       start,
		DurationMinutes: 45,
		Status:          status,
		ServiceName:     "Classic Haircut",
		ServicePrice:    50,
	}
}

func TestBookingRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	created, err := repo.Create(ctx, newBooking(7, 1, day.Add(15*time.Hour), "10:00", domain.StatusPending))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, day, created.BookingDate)
	assert.False(t, created.CreatedAt.IsZero())

	// Возвращается копия: изменение результата не влияет на ledger
	created.Status = domain.StatusCancelled
	stored, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)

	second, err := repo.Create(ctx, newBooking(7, 1, day, "11:00", domain.StatusConfirmed))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestBookingRepository_CreateRejectsTerminalStatus(t *testing.T) {
	repo := NewBookingRepository()

	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusCancelled, "unknown"} {
		_, err := repo.Create(context.Background(), newBooking(7, 1, day, "10:00", status))
		assert.ErrorIs(t, err, bookingRepo.ErrInvalidStatus)
	}
	assert.Zero(t, repo.Len())
}

func TestBookingRepository_GetByIDNotFound(t *testing.T) {
	_, err := NewBookingRepository().GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)
}

func TestBookingRepository_ListActive(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	mustCreate := func(b *domain.Booking) *domain.Booking {
		created, err := repo.Create(ctx, b)
		require.NoError(t, err)
		return created
	}

	mustCreate(newBooking(1, 2, day, "12:00", domain.StatusConfirmed))
	mustCreate(newBooking(1, 1, day, "11:00", domain.StatusPending))
	mustCreate(newBooking(1, 1, day, "09:00", domain.StatusConfirmed))
	mustCreate(newBooking(1, 1, day.AddDate(0, 0, 1), "09:00", domain.StatusConfirmed))
	cancelled := mustCreate(newBooking(1, 1, day, "14:00", domain.StatusPending))
	_, err := repo.UpdateStatus(ctx, cancelled.ID, domain.StatusCancelled, nil)
	require.NoError(t, err)

	all, err := repo.ListActive(ctx, day, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, types.TimeString("09:00"), all[0].StartTime)
	assert.Equal(t, types.TimeString("11:00"), all[1].StartTime)
	assert.Equal(t, int64(2), all[2].StylistID)

	onlySecond, err := repo.ListActive(ctx, day, []int64{2})
	require.NoError(t, err)
	require.Len(t, onlySecond, 1)
	assert.Equal(t, int64(2), onlySecond[0].StylistID)
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		path    []domain.BookingStatus
		next    domain.BookingStatus
		wantErr error
	}{
		{name: "approve pending", next: domain.StatusConfirmed},
		{name: "cancel pending", next: domain.StatusCancelled},
		{name: "complete pending", next: domain.StatusCompleted, wantErr: bookingRepo.ErrInvalidTransition},
		{name: "complete confirmed", path: []domain.BookingStatus{domain.StatusConfirmed}, next: domain.StatusCompleted},
		{
			name:    "approve cancelled",
			path:    []domain.BookingStatus{domain.StatusCancelled},
			next:    domain.StatusConfirmed,
			wantErr: bookingRepo.ErrInvalidTransition,
		},
		{
			name:    "cancel completed",
			path:    []domain.BookingStatus{domain.StatusConfirmed, domain.StatusCompleted},
			next:    domain.StatusCancelled,
			wantErr: bookingRepo.ErrInvalidTransition,
		},
		{name: "back to pending", next: domain.StatusPending, wantErr: bookingRepo.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewBookingRepository()
			created, err := repo.Create(ctx, newBooking(1, 1, day, "10:00", domain.StatusPending))
			require.NoError(t, err)

			for _, step := range tt.path {
				_, err := repo.UpdateStatus(ctx, created.ID, step, nil)
				require.NoError(t, err)
			}

			updated, err := repo.UpdateStatus(ctx, created.ID, tt.next, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.next, updated.Status)
		})
	}
}

func TestBookingRepository_CancelStoresReason(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	created, err := repo.Create(ctx, newBooking(1, 1, day, "10:00", domain.StatusPending))
	require.NoError(t, err)

	cancelled, err := repo.UpdateStatus(ctx, created.ID, domain.StatusCancelled, ptr.Ptr("sick"))
	require.NoError(t, err)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "sick", *cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = repo.UpdateStatus(ctx, 99, domain.StatusCancelled, nil)
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)
}

func TestBookingRepository_ListByUserAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	for _, b := range []*domain.Booking{
		newBooking(1, 1, day, "10:00", domain.StatusPending),
		newBooking(1, 1, day.AddDate(0, 0, 2), "10:00", domain.StatusConfirmed),
		newBooking(2, 2, day.AddDate(0, 0, 1), "10:00", domain.StatusConfirmed),
	} {
		_, err := repo.Create(ctx, b)
		require.NoError(t, err)
	}

	mine, err := repo.ListByUser(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].BookingDate.After(mine[1].BookingDate))

	confirmed := domain.StatusConfirmed
	mineConfirmed, err := repo.ListByUser(ctx, 1, &confirmed)
	require.NoError(t, err)
	assert.Len(t, mineConfirmed, 1)

	from, to := day, day.AddDate(0, 0, 1)
	inRange, err := repo.ListWithFilter(ctx, domain.BookingsFilter{StartDate: &from, EndDate: &to})
	require.NoError(t, err)
	require.Len(t, inRange, 2)
	assert.Equal(t, int64(1), inRange[0].UserID)
	assert.Equal(t, int64(2), inRange[1].UserID)
}

func TestBookingRepository_ListConfirmedEndedBefore(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	ended, err := repo.Create(ctx, newBooking(1, 1, day, "09:00", domain.StatusPending))
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, ended.ID, domain.StatusConfirmed, nil)
	require.NoError(t, err)

	running, err := repo.Create(ctx, newBooking(1, 1, day, "10:00", domain.StatusPending))
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, running.ID, domain.StatusConfirmed, nil)
	require.NoError(t, err)

	// pending не завершается автоматически
	_, err = repo.Create(ctx, newBooking(1, 2, day, "09:00", domain.StatusPending))
	require.NoError(t, err)

	now := time.Date(2026, 10, 20, 10, 30, 0, 0, time.UTC)
	result, err := repo.ListConfirmedEndedBefore(ctx, now)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, ended.ID, result[0].ID)
}
