package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

const defaultInterval = time.Minute

// Config настройки обхода
type Config struct {
	Interval time.Duration
}

// Worker периодически переводит подтверждённые бронирования, время которых прошло, в completed
type Worker struct {
	bookingRepo  BookingRepository
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	interval     time.Duration
}

// NewWorker создает обходчик завершённых бронирований
func NewWorker(
	bookingRepo BookingRepository,
	publisher EventPublisher,
	metricsCollector Metrics,
	timeProvider TimeProvider,
	logger Logger,
	cfg Config,
) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	return &Worker{
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		metrics:      metricsCollector,
		timeProvider: timeProvider,
		logger:       logger,
		interval:     cfg.Interval,
	}
}

// Run запускает обход до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("CompletionWorker: started, interval=%s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("CompletionWorker: stopped")
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.logger.Error("CompletionWorker: sweep failed: %v", err)
			}
		}
	}
}

// RunOnce выполняет один проход и возвращает количество завершённых бронирований
// Бронирование, изменённое конкурентно (например, отменённое), пропускается
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	now := w.timeProvider.Now()

	bookings, err := w.bookingRepo.ListConfirmedEndedBefore(ctx, now)
	if err != nil {
		w.metrics.IncBookingOutcome(metrics.OutcomeSweepError)
		return 0, fmt.Errorf("failed to list finished bookings: %w", err)
	}

	completed := 0
	for _, b := range bookings {
		if ctx.Err() != nil {
			return completed, ctx.Err()
		}

		updated, err := w.bookingRepo.UpdateStatus(ctx, b.ID, domain.StatusCompleted, nil)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidTransition) || errors.Is(err, bookingRepo.ErrBookingNotFound) {
				w.logger.Warn("CompletionWorker: booking id=%d skipped: %v", b.ID, err)
				continue
			}
			w.metrics.IncBookingOutcome(metrics.OutcomeSweepError)
			w.logger.Error("CompletionWorker: failed to complete booking id=%d: %v", b.ID, err)
			continue
		}

		completed++
		w.metrics.IncBookingOutcome(metrics.OutcomeCompleted)

		if err := w.publisher.PublishBookingEvent(ctx, events.TypeBookingCompleted, updated); err != nil {
			w.logger.Warn("CompletionWorker: failed to publish event for booking id=%d: %v", updated.ID, err)
		}
	}

	if completed > 0 {
		w.logger.Info("CompletionWorker: completed %d bookings", completed)
	}
	return completed, nil
}
