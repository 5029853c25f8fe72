// Package kafka publishes order events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	defaultBatchTimeout = 10 * time.Millisecond
	defaultBatchSize    = 100

	// HeaderEventType carries events.Event.Type on every message.
	HeaderEventType = "event-type"
)

// MessageWriter is the part of *kafkago.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher forwards events to Kafka. It implements events.EventHandler.
type Publisher struct {
	writer MessageWriter
	topic  string
	logger *slog.Logger
}

var _ events.EventHandler = (*Publisher)(nil)

// NewWriter creates a Kafka writer for the configured brokers and topic.
func NewWriter(cfg config.EventsConfig) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		BatchTimeout:           defaultBatchTimeout,
		BatchSize:              defaultBatchSize,
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// NewPublisher wraps writer. topic is only used for logging; the writer
// decides where messages go.
func NewPublisher(writer MessageWriter, topic string, log *slog.Logger) *Publisher {
	if writer == nil {
		panic("kafka publisher requires a writer")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{
		writer: writer,
		topic:  topic,
		logger: log.With(slog.String("component", "kafka_publisher"), slog.String("topic", topic)),
	}
}

// HandleEvent writes event as a JSON message keyed by its order ID. The
// current trace context is injected into the message headers.
func (p *Publisher) HandleEvent(ctx context.Context, event *events.Event) error {
	log := logger.FromContextOrDefault(ctx, p.logger)

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.ID, err)
	}

	msg := kafkago.Message{
		Key:     []byte(event.OrderID.String()),
		Value:   value,
		Time:    event.CreatedAt,
		Headers: traceHeaders(ctx),
	}
	msg.Headers = append(msg.Headers, kafkago.Header{Key: HeaderEventType, Value: []byte(event.Type)})

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Error("failed to publish event",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}

	log.Debug("event published",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("order_id", event.OrderID.String()))
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func traceHeaders(ctx context.Context) []kafkago.Header {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := make([]kafkago.Header, 0, len(carrier)+1)
	for _, k := range carrier.Keys() {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(carrier.Get(k))})
	}
	return headers
}
