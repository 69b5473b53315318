package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IgorGrieder/short-links/internal/config"
	"github.com/IgorGrieder/short-links/internal/infrastructure/logger"
	"github.com/IgorGrieder/short-links/internal/infrastructure/telemetry"
	"github.com/IgorGrieder/short-links/internal/processing/clicks"
	redisStorage "github.com/IgorGrieder/short-links/internal/storage/redis"
	"github.com/IgorGrieder/short-links/internal/transport/stream"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.Topic == "" || cfg.Kafka.GroupID == "" {
		fmt.Fprintln(os.Stderr, "KAFKA_BROKERS, KAFKA_CLICK_TOPIC and KAFKA_CLICK_GROUP_ID are required")
		os.Exit(1)
	}

	if err := logger.Init(cfg.App.Env, cfg.App.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	serviceName := fmt.Sprintf("%s-click-consumer", cfg.App.Name)
	telemetry.SetPropagator()
	if cfg.OTel.Enabled {
		shutdownTracer, err := telemetry.InitTracer(cfg.OTel.Endpoint, serviceName, cfg.App.Version)
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			logger.Info("OpenTelemetry tracer initialized",
				zap.String("endpoint", cfg.OTel.Endpoint),
				zap.String("service", serviceName),
			)
			defer func() {
				if err := shutdownTracer(context.Background()); err != nil {
					logger.Warn("failed to shutdown tracer", zap.Error(err))
				}
			}()
		}
	}

	counter, err := redisStorage.New(redisStorage.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Key:      cfg.Redis.MetricsKey,
	})
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = counter.Close() }()

	reader := stream.NewReader(stream.ReaderConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		GroupID:      cfg.Kafka.GroupID,
		FetchMaxWait: cfg.Kafka.FetchMaxWait,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Warn("failed to close kafka reader", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("click consumer started",
		zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
		zap.String("kafka_topic", cfg.Kafka.Topic),
		zap.String("kafka_group", cfg.Kafka.GroupID),
		zap.String("metrics_key", cfg.Redis.MetricsKey),
	)

	consumer := stream.NewConsumer(reader, clicks.NewHandler(counter, cfg.Kafka.OperationTTL), cfg.Kafka.ConsumeBackoff)
	if err := consumer.Run(ctx); err != nil {
		logger.Error("click consumer stopped with error", zap.Error(err))
		return
	}
	logger.Info("click consumer stopping")
}
