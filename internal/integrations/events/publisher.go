package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const (
	defaultTopicPrefix  = "booking"
	defaultWriteTimeout = 5 * time.Second
	topicVersion        = "v1"
)

// Config настройки публикации событий
type Config struct {
	Brokers      []string
	TopicPrefix  string
	WriteTimeout time.Duration
}

// Publisher публикует события бронирований в Kafka
// Топик на каждый тип события: <prefix>.<type>.v1, ключ - ID бронирования
type Publisher struct {
	writer       messageWriter
	topicPrefix  string
	writeTimeout time.Duration
	now          func() time.Time
	logger       Logger
}

// NewPublisher создает публикатор поверх kafka.Writer
func NewPublisher(cfg Config, logger Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(writer, cfg, logger)
}

func newPublisher(writer messageWriter, cfg Config, logger Logger) *Publisher {
	prefix := strings.Trim(strings.TrimSpace(cfg.TopicPrefix), ".")
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	return &Publisher{
		writer:       writer,
		topicPrefix:  prefix,
		writeTimeout: cfg.WriteTimeout,
		now:          time.Now,
		logger:       logger,
	}
}

// PublishBookingEvent публикует событие о бронировании
func (p *Publisher) PublishBookingEvent(ctx context.Context, eventType Type, booking *domain.Booking) error {
	msg, err := p.buildMessage(eventType, booking)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("%w: topic=%s booking=%d: %v", ErrPublish, msg.Topic, booking.ID, err)
	}

	p.logger.Info("Events: published %s for booking id=%d", msg.Topic, booking.ID)
	return nil
}

// Close закрывает соединения с брокером
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) topic(eventType Type) string {
	return p.topicPrefix + "." + string(eventType) + "." + topicVersion
}

func (p *Publisher) buildMessage(eventType Type, booking *domain.Booking) (kafka.Message, error) {
	fullType := p.topicPrefix + "." + string(eventType)
	event := BookingEvent{
		EventID:            uuid.NewString(),
		EventType:          fullType,
		OccurredAt:         p.now().UTC(),
		BookingID:          booking.ID,
		UserID:             booking.UserID,
		ServiceID:          booking.ServiceID,
		StylistID:          booking.StylistID,
		Date:               booking.BookingDate.Format(domain.DateFormat),
		StartTime:          booking.StartTime.String(),
		DurationMinutes:    booking.DurationMinutes,
		Status:             string(booking.Status),
		ServiceName:        booking.ServiceName,
		ServicePrice:       booking.ServicePrice,
		CancellationReason: booking.CancellationReason,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	return kafka.Message{
		Topic: p.topic(eventType),
		Key:   []byte(strconv.FormatInt(booking.ID, 10)),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}, nil
}

// Noop публикатор, используемый при выключенной Kafka
type Noop struct{}

// PublishBookingEvent ничего не делает
func (Noop) PublishBookingEvent(context.Context, Type, *domain.Booking) error {
	return nil
}
