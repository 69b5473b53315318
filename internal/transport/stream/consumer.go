package stream

import (
	"context"
	"errors"
	"time"

	"github.com/IgorGrieder/short-links/internal/infrastructure/logger"
	"github.com/IgorGrieder/short-links/internal/infrastructure/telemetry"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MessageHandler processes one payload. A nil error commits the offset.
type MessageHandler interface {
	Handle(ctx context.Context, payload []byte) error
}

type ReaderConfig struct {
	Brokers      []string
	Topic        string
	GroupID      string
	FetchMaxWait time.Duration
}

func NewReader(cfg ReaderConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     cfg.FetchMaxWait,
		StartOffset: kafka.FirstOffset,
	})
}

type Consumer struct {
	reader  messageReader
	handler MessageHandler
	backoff time.Duration
}

func NewConsumer(reader messageReader, handler MessageHandler, backoff time.Duration) *Consumer {
	return &Consumer{reader: reader, handler: handler, backoff: backoff}
}

// Run fetches, handles and commits messages until ctx is cancelled. A failed
// message is retried with backoff and never skipped, since a later commit
// would move the group offset past it.
func (c *Consumer) Run(ctx context.Context) error {
	tracer := otel.Tracer("click-consumer")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			logger.Error("failed to fetch kafka message", zap.Error(err))
			if !c.sleep(ctx) {
				return nil
			}
			continue
		}

		consumeCtx := telemetry.ExtractMap(ctx, headersToMap(msg.Headers))
		consumeCtx, span := tracer.Start(
			consumeCtx,
			"kafka.consume.click_recorded",
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				attribute.String("messaging.system", "kafka"),
				attribute.String("messaging.destination.name", msg.Topic),
				attribute.String("messaging.operation", "process"),
				attribute.Int("messaging.kafka.partition", msg.Partition),
				attribute.Int64("messaging.kafka.offset", msg.Offset),
			),
		)

		if !c.handleWithRetry(ctx, consumeCtx, msg) {
			span.End()
			return nil
		}

		if err := c.reader.CommitMessages(consumeCtx, msg); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "commit kafka offset failed")
			logger.Error("failed to commit kafka offset",
				zap.Error(err),
				zap.Int64("offset", msg.Offset),
			)
		}
		span.End()
	}
}

// handleWithRetry returns false only when ctx is cancelled before msg is
// handled.
func (c *Consumer) handleWithRetry(ctx, consumeCtx context.Context, msg kafka.Message) bool {
	span := trace.SpanFromContext(consumeCtx)
	for attempt := 1; ; attempt++ {
		err := c.handler.Handle(consumeCtx, msg.Value)
		if err == nil {
			return true
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "process click event failed")
		logger.Error("failed to process click event, retrying",
			zap.Error(err),
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
		)
		if !c.sleep(ctx) {
			return false
		}
	}
}

func (c *Consumer) sleep(ctx context.Context) bool {
	if c.backoff <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(c.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
