package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrForwarderClosed is returned when events arrive after Close
var ErrForwarderClosed = errors.New("kafka forwarder is closed")

// KafkaWriter is the subset of *kafka.Writer the forwarder uses
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder copies every domain event to a Kafka topic. Events are
// queued and written by a background loop so request latency does not
// depend on the broker. A full queue drops the event with a warning.
type KafkaForwarder struct {
	writer     KafkaWriter
	events     chan *Envelope
	maxRetries uint64
	logger     *zap.Logger

	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}
}

// NewKafkaForwarder creates a forwarder writing to cfg.Topic
func NewKafkaForwarder(cfg *config.KafkaConfig, logger *zap.Logger) (*KafkaForwarder, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka: topic is required")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
		Transport:              &kafka.Transport{ClientID: cfg.ClientID},
	}
	return newKafkaForwarder(writer, cfg.BufferSize, cfg.MaxRetries, logger), nil
}

func newKafkaForwarder(writer KafkaWriter, bufferSize int, maxRetries uint64, logger *zap.Logger) *KafkaForwarder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	f := &KafkaForwarder{
		writer:     writer,
		events:     make(chan *Envelope, bufferSize),
		maxRetries: maxRetries,
		logger:     logger.Named("kafka_forwarder"),
		closed:     make(chan struct{}),
		done:       make(chan struct{}),
	}
	go f.loop()
	return f
}

// EventTypes returns nil; every event is forwarded
func (f *KafkaForwarder) EventTypes() []string {
	return nil
}

// Handle queues the event for delivery
func (f *KafkaForwarder) Handle(_ context.Context, event shared.DomainEvent) error {
	envelope, err := NewEnvelope(event)
	if err != nil {
		return err
	}
	select {
	case <-f.closed:
		return ErrForwarderClosed
	default:
	}
	select {
	case f.events <- envelope:
	default:
		f.logger.Warn("kafka queue full, dropping event",
			zap.String("event_type", envelope.EventType),
			zap.String("event_id", envelope.EventID.String()))
	}
	return nil
}

func (f *KafkaForwarder) loop() {
	defer close(f.done)
	for {
		select {
		case envelope := <-f.events:
			f.send(envelope)
		case <-f.closed:
			// drain what was queued before Close
			for {
				select {
				case envelope := <-f.events:
					f.send(envelope)
				default:
					return
				}
			}
		}
	}
}

func (f *KafkaForwarder) send(envelope *Envelope) {
	value, err := json.Marshal(envelope)
	if err != nil {
		f.logger.Error("failed to serialize event", zap.String("event_id", envelope.EventID.String()), zap.Error(err))
		return
	}
	msg := kafka.Message{
		Key:   envelope.Key(),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(envelope.EventType)},
			{Key: "tenant_id", Value: []byte(envelope.TenantID.String())},
		},
		Time: envelope.OccurredAt,
	}

	policy := backoff.WithMaxRetries(f.backoffPolicy(), f.maxRetries)
	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return f.writer.WriteMessages(ctx, msg)
	}, policy)
	if err != nil {
		f.logger.Error("failed to forward event",
			zap.String("event_type", envelope.EventType),
			zap.String("event_id", envelope.EventID.String()),
			zap.Int("attempts", attempt),
			zap.Error(err))
	}
}

func (f *KafkaForwarder) backoffPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = time.Minute
	return b
}

// Close stops accepting events, flushes the queue and closes the writer
func (f *KafkaForwarder) Close(ctx context.Context) error {
	f.closeOnce.Do(func() { close(f.closed) })
	select {
	case <-f.done:
	case <-ctx.Done():
		return fmt.Errorf("kafka forwarder flush: %w", ctx.Err())
	}
	return f.writer.Close()
}

var _ shared.EventHandler = (*KafkaForwarder)(nil)
