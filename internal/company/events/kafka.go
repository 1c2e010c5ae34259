package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/companyd/internal/company/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

// Envelope is the wire format written to the company topic.
type Envelope struct {
	EventName string          `json:"event_name"`
	Payload   json.RawMessage `json:"payload"`
}

// KafkaWriter is satisfied by *kafka.Writer; an interface so tests can
// substitute the transport.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Forwarder bridges the in-process dispatcher to Kafka. It is subscribed as
// an ordinary async handler when the kafka backend is configured. Delivery
// is best effort: writes are retried with capped exponential backoff and
// events that still fail are parked in the fallback store.
type Forwarder struct {
	writer     KafkaWriter
	queue      chan domain.Event
	fallback   *FallbackStore
	logger     *zap.Logger
	maxRetries uint64
	closeChan  chan struct{}
	doneChan   chan struct{}
}

// NewForwarder connects to the brokers, ensures the topic exists and starts
// the send loop.
func NewForwarder(brokers []string, topic string, queueSize, fallbackLimit int, logger *zap.Logger) (*Forwarder, error) {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	f := &Forwarder{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		queue:      make(chan domain.Event, queueSize),
		fallback:   NewFallbackStore(fallbackLimit),
		logger:     logger.Named("kafka_forwarder"),
		maxRetries: 3,
		closeChan:  make(chan struct{}),
		doneChan:   make(chan struct{}),
	}
	go f.sendLoop()
	return f, nil
}

// Name implements Handler.
func (f *Forwarder) Name() string { return "kafka_forwarder" }

// Handle implements Handler by enqueueing the event for the send loop.
// When the queue is full the event goes straight to the fallback store.
func (f *Forwarder) Handle(_ context.Context, event domain.Event) error {
	select {
	case f.queue <- event:
	default:
		f.logger.Warn("Forwarder queue full, parking event",
			zap.String("event", event.Name()),
			zap.String("event_id", event.ID().String()),
		)
		f.fallback.Add(event)
	}
	return nil
}

// Fallback exposes the store holding events that could not be delivered.
func (f *Forwarder) Fallback() *FallbackStore { return f.fallback }

func (f *Forwarder) sendLoop() {
	defer close(f.doneChan)
	for {
		select {
		case event := <-f.queue:
			f.sendEvent(context.Background(), event)
		case <-f.closeChan:
			return
		}
	}
}

func (f *Forwarder) sendEvent(ctx context.Context, event domain.Event) {
	payload, err := jsonMarshal(event)
	if err != nil {
		f.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("event", event.Name()),
			zap.String("event_id", event.ID().String()),
		)
		return
	}
	value, err := jsonMarshal(Envelope{EventName: event.Name(), Payload: payload})
	if err != nil {
		f.logger.Error("Failed to serialize envelope",
			zap.Error(err),
			zap.String("event", event.Name()),
		)
		return
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(100*time.Millisecond),
		backoff.WithMaxInterval(2*time.Second),
	), f.maxRetries)

	err = backoff.Retry(func() error {
		return f.writer.WriteMessages(ctx, kafka.Message{
			Key:   messageKey(event),
			Value: value,
		})
	}, policy)
	if err != nil {
		f.logger.Error("Failed to forward event, parking in fallback store",
			zap.Error(err),
			zap.String("event", event.Name()),
			zap.String("event_id", event.ID().String()),
		)
		f.fallback.Add(event)
	}
}

// messageKey partitions by company so events for one company stay ordered.
func messageKey(event domain.Event) []byte {
	switch ev := event.(type) {
	case domain.CompanyCreated:
		return []byte(ev.CompanyID.String())
	case domain.CompanyUpdated:
		return []byte(ev.CompanyID.String())
	default:
		return []byte(event.ID().String())
	}
}

// Close stops the send loop and closes the writer.
func (f *Forwarder) Close() {
	close(f.closeChan)
	<-f.doneChan
	if err := f.writer.Close(); err != nil {
		f.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
