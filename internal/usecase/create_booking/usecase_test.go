package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/pkg/keylock"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const (
	classicHaircut = int64(1) // 45 мин, Hair
	beardTrim      = int64(2) // 30 мин, Grooming
	hairWash       = int64(6) // 30 мин, Hair

	sarah   = int64(1) // Hair, Nails
	michael = int64(2) // Hair, Grooming, Skincare
)

var (
	bookingDate = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)  // вторник
	yesterday   = time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC) // накануне вечером
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Type
	err    error
}

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, eventType events.Type, _ *domain.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return p.err
}

// conflictingTx имитирует проигрыш сериализуемой транзакции
type conflictingTx struct{}

func (conflictingTx) DoSerializable(context.Context, func(ctx context.Context) error) error {
	return txmanager.ErrSerializationFailure
}

type fixture struct {
	ledger    *memory.BookingRepository
	catalog   *memory.CatalogRepository
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	uc        *UseCase
}

func testHours() domain.BusinessHours {
	return domain.BusinessHours{
		Open:                    "09:00",
		Close:                   "18:00",
		SlotStepMinutes:         30,
		ClosedWeekdays:          []time.Weekday{time.Sunday},
		AdvanceBookingDays:      30,
		MinBookingNoticeMinutes: 60,
	}
}

func newFixture(t *testing.T, hours domain.BusinessHours, now time.Time) *fixture {
	t.Helper()

	f := &fixture{
		ledger:    memory.NewBookingRepository(),
		catalog:   memory.NewSeededCatalog(),
		publisher: &recordingPublisher{},
		metrics:   metrics.NewWithRegisterer("test", prometheus.NewRegistry()),
	}
	f.uc = NewUseCase(
		f.ledger,
		f.catalog,
		keylock.New(),
		txmanager.Noop{},
		f.publisher,
		f.metrics,
		hours,
		logger.NewDiscard(),
	).WithTimeProvider(fixedTime{now: now})

	return f
}

func (f *fixture) seed(t *testing.T, stylistID int64, start types.TimeString, duration int, status domain.BookingStatus) {
	t.Helper()
	_, err := f.ledger.Create(context.Background(), &domain.Booking{
		UserID:          100,
		ServiceID:       classicHaircut,
		StylistID:       stylistID,
		BookingDate:     bookingDate,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
	})
	require.NoError(t, err)
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t, testHours(), yesterday)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:    7,
		ServiceID: classicHaircut,
		StylistID: ptr.Ptr(sarah),
		Date:      bookingDate,
		StartTime: "17:00",
		Notes:     ptr.Ptr("Please trim the sides shorter"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, sarah, resp.StylistID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 45, resp.DurationMinutes)
	assert.Equal(t, "Classic Haircut", resp.ServiceName)
	assert.Equal(t, 50.0, resp.ServicePrice)
	assert.Equal(t, []events.Type{events.TypeBookingCreated}, f.publisher.events)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookingOutcomes.WithLabelValues(metrics.OutcomeCreated)))
}

func TestExecute_OverlapReturnsConflict(t *testing.T) {
	hours := testHours()
	hours.SlotStepMinutes = 15
	f := newFixture(t, hours, yesterday)
	f.seed(t, sarah, "10:00", 45, domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:    7,
		ServiceID: hairWash,
		StylistID: ptr.Ptr(sarah),
		Date:      bookingDate,
		StartTime: "10:15",
	})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, resp)
	assert.Equal(t, 1, f.ledger.Len())
	assert.Empty(t, f.publisher.events)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookingOutcomes.WithLabelValues(metrics.OutcomeConflict)))
}

func TestExecute_AdjacentIsNotConflict(t *testing.T) {
	f := newFixture(t, testHours(), yesterday)
	f.seed(t, sarah, "10:00", 30, domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:    7,
		ServiceID: hairWash,
		StylistID: ptr.Ptr(sarah),
		Date:      bookingDate,
		StartTime: "10:30",
	})
	require.NoError(t, err)
	assert.Equal(t, sarah, resp.StylistID)
}

func TestExecute_InactiveBookingsDoNotBlock(t *testing.T) {
	f := newFixture(t, testHours(), yesterday)
	f.seed(t, sarah, "10:00", 45, domain.StatusPending)
	_, err := f.ledger.UpdateStatus(context.Background(), 1, domain.StatusCancelled, nil)
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{
		UserID:    7,
		ServiceID: classicHaircut,
		StylistID: ptr.Ptr(sarah),
		Date:      bookingDate,
		StartTime: "10:00",
	})
	assert.NoError(t, err)
}

func TestExecute_NoPreferenceAssignsFreeStylist(t *testing.T) {
	f := newFixture(t, testHours(), yesterday)
	f.seed(t, sarah, "10:00", 45, domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:    7,
		ServiceID: classicHaircut,
		Date:      bookingDate,
		StartTime: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, michael, resp.StylistID)

	// Оба стилиста заняты
	_, err = f.uc.Execute(context.Background(), &Request{
		UserID:    8,
		ServiceID: classicHaircut,
		Date:      bookingDate,
		StartTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_NoPreferencePrefersLowestID(t *testing.T) {
	f := newFixture(t, testHours(), yesterday)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:    7,
		ServiceID: classicHaircut,
		Date:      bookingDate,
		StartTime: "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, sarah, resp.StylistID)
}

func TestExecute_NoPreferenceOnlyQualified(t *testing.T) {
	f := newFixture(t, testHours(), yesterday)
	f.seed(t, michael, "10:00", 30, domain.StatusConfirmed)

	// Beard Trim выполняет только Michael, свободная Sarah не подходит
	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:    7,
		ServiceID: beardTrim,
		Date:      bookingDate,
		StartTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_StylistWorkingHours(t *testing.T) {
	stylists := memory.SeedStylists()
	stylists[0].WorkingHours = domain.WeeklySchedule{time.Tuesday: {Open: "12:00", Close: "18:00"}}

	f := newFixture(t, testHours(), yesterday)
	f.catalog = memory.NewCatalogRepository(memory.SeedServices(), stylists)
	f.uc.catalogRepo = f.catalog

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:    7,
		ServiceID: classicHaircut,
		StylistID: ptr.Ptr(sarah),
		Date:      bookingDate,
		StartTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:    7,
		ServiceID: classicHaircut,
		Date:      bookingDate,
		StartTime: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, michael, resp.StylistID)
}

func TestExecute_ValidationErrors(t *testing.T) {
	sunday := time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
	longNotes := string(make([]byte, domain.MaxNotesLength+1))

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "no user", req: &Request{ServiceID: classicHaircut, Date: bookingDate, StartTime: "10:00"}, wantErr: ErrInvalidInput},
		{name: "no service", req: &Request{UserID: 7, Date: bookingDate, StartTime: "10:00"}, wantErr: ErrInvalidInput},
		{name: "no date", req: &Request{UserID: 7, ServiceID: classicHaircut, StartTime: "10:00"}, wantErr: ErrInvalidInput},
		{name: "no time", req: &Request{UserID: 7, ServiceID: classicHaircut, Date: bookingDate}, wantErr: ErrInvalidInput},
		{name: "malformed time", req: &Request{UserID: 7, ServiceID: classicHaircut, Date: bookingDate, StartTime: "25:00"}, wantErr: ErrInvalidInput},
		{
			name:    "long notes",
			req:     &Request{UserID: 7, ServiceID: classicHaircut, Date: bookingDate, StartTime: "10:00", Notes: &longNotes},
			wantErr: ErrInvalidInput,
		},
		{name: "unknown service", req: &Request{UserID: 7, ServiceID: 99, Date: bookingDate, StartTime: "10:00"}, wantErr: ErrServiceNotFound},
		{
			name:    "unknown stylist",
			req:     &Request{UserID: 7, ServiceID: classicHaircut, StylistID: ptr.Ptr(int64(99)), Date: bookingDate, StartTime: "10:00"},
			wantErr: ErrStylistNotFound,
		},
		{
			name:    "stylist not qualified",
			req:     &Request{UserID: 7, ServiceID: beardTrim, StylistID: ptr.Ptr(sarah), Date: bookingDate, StartTime: "10:00"},
			wantErr: ErrStylistNotQualified,
		},
		{name: "past date", req: &Request{UserID: 7, ServiceID: classicHaircut, Date: bookingDate.AddDate(0, 0, -2), StartTime: "10:00"}, wantErr: ErrInvalidDate},
		{name: "too far", req: &Request{UserID: 7, ServiceID: classicHaircut, Date: bookingDate.AddDate(0, 2, 0), StartTime: "10:00"}, wantErr: ErrDateTooFarInFuture},
		{name: "closed day", req: &Request{UserID: 7, ServiceID: classicHaircut, Date: sunday, StartTime: "10:00"}, wantErr: ErrSalonClosed},
		{name: "last slot does not fit", req: &Request{UserID: 7, ServiceID: classicHaircut, Date: bookingDate, StartTime: "17:30"}, wantErr: ErrInvalidTimeSlot},
		{name: "off grid", req: &Request{UserID: 7, ServiceID: classicHaircut, Date: bookingDate, StartTime: "10:10"}, wantErr: ErrInvalidTimeSlot},
		{name: "before opening", req: &Request{UserID: 7, ServiceID: classicHaircut, Date: bookingDate, StartTime: "08:30"}, wantErr: ErrInvalidTimeSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testHours(), yesterday)

			resp, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
			assert.Zero(t, f.ledger.Len())
		})
	}
}

func TestExecute_TooLateToBook(t *testing.T) {
	now := time.Date(2026, 10, 20, 9, 40, 0, 0, time.UTC)
	f := newFixture(t, testHours(), now)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID: 7, ServiceID: classicHaircut, Date: bookingDate, StartTime: "10:30",
	})
	assert.ErrorIs(t, err, ErrTooLateToBook)

	_, err = f.uc.Execute(context.Background(), &Request{
		UserID: 7, ServiceID: classicHaircut, Date: bookingDate, StartTime: "11:00",
	})
	assert.NoError(t, err)
}

func TestExecute_InactiveService(t *testing.T) {
	f := newFixture(t, testHours(), yesterday)
	require.NoError(t, f.catalog.DeactivateService(context.Background(), classicHaircut))

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID: 7, ServiceID: classicHaircut, Date: bookingDate, StartTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_SerializationFailureIsConflict(t *testing.T) {
	f := newFixture(t, testHours(), yesterday)
	f.uc.txManager = conflictingTx{}

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID: 7, ServiceID: classicHaircut, Date: bookingDate, StartTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_PublishFailureKeepsBooking(t *testing.T) {
	f := newFixture(t, testHours(), yesterday)
	f.publisher.err = errors.New("broker down")

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID: 7, ServiceID: classicHaircut, Date: bookingDate, StartTime: "10:00",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, 1, f.ledger.Len())
}

func TestExecute_ConcurrentSameStylistExactlyOneSucceeds(t *testing.T) {
	f := newFixture(t, testHours(), yesterday)

	const attempts = 30
	starts := []types.TimeString{"10:00", "10:30"} // оба пересекаются с 45-минутной стрижкой в 10:00

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), &Request{
				UserID:    int64(i + 1),
				ServiceID: classicHaircut,
				StylistID: ptr.Ptr(sarah),
				Date:      bookingDate,
				StartTime: starts[i%len(starts)],
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotNotAvailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	active, err := f.ledger.ListActive(context.Background(), bookingDate, []int64{sarah})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestExecute_ConcurrentNoPreferenceFillsEachStylistOnce(t *testing.T) {
	f := newFixture(t, testHours(), yesterday)

	const attempts = 20
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), &Request{
				UserID:    int64(i + 1),
				ServiceID: classicHaircut,
				Date:      bookingDate,
				StartTime: "14:00",
			})
			if err != nil && !errors.Is(err, ErrSlotNotAvailable) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	active, err := f.ledger.ListActive(context.Background(), bookingDate, nil)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.ElementsMatch(t, []int64{sarah, michael}, []int64{active[0].StylistID, active[1].StylistID})
}
