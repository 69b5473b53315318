package stream

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/IgorGrieder/short-links/internal/events"
	"github.com/IgorGrieder/short-links/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ClickPublisher records clicks by publishing ClickRecorded events. The
// click consumer applies them to the counter.
type ClickPublisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func NewClickPublisher(writer messageWriter, topic string) *ClickPublisher {
	return &ClickPublisher{writer: writer, topic: topic, now: time.Now}
}

func (p *ClickPublisher) RecordClick(ctx context.Context, shortLinkID string) error {
	ev := events.NewClickRecorded(uuid.NewString(), shortLinkID, p.now())
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, span := otel.Tracer("click-publisher").Start(
		ctx,
		"kafka.publish.click_recorded",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", p.topic),
			attribute.String("messaging.operation", "publish"),
			attribute.String("messaging.message.id", ev.EventID),
			attribute.String("messaging.kafka.message_key", shortLinkID),
		),
	)
	defer span.End()

	// Keyed by link id so one link's clicks stay on one partition.
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(shortLinkID),
		Value:   value,
		Time:    p.now().UTC(),
		Headers: mapToHeaders(telemetry.InjectMap(ctx)),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "kafka publish failed")
		return err
	}
	return nil
}

func (p *ClickPublisher) Close() error {
	return p.writer.Close()
}

func mapToHeaders(carrier map[string]string) []kafka.Header {
	headers := make([]kafka.Header, 0, len(carrier))
	for key, value := range carrier {
		if strings.TrimSpace(value) == "" {
			continue
		}
		headers = append(headers, kafka.Header{
			Key:   key,
			Value: []byte(value),
		})
	}
	return headers
}

func headersToMap(headers []kafka.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for _, header := range headers {
		out[header.Key] = string(header.Value)
	}
	return out
}
