package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IgorGrieder/short-links/internal/config"
	"github.com/IgorGrieder/short-links/internal/infrastructure/logger"
	"github.com/IgorGrieder/short-links/internal/infrastructure/telemetry"
	"github.com/IgorGrieder/short-links/internal/processing/links"
	httpTransport "github.com/IgorGrieder/short-links/internal/transport/http"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.App.Env, cfg.App.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.String("links_backend", cfg.Storage.LinksBackend),
		zap.String("clicks_mode", cfg.Clicks.Mode),
		zap.String("metrics_mode", cfg.Metrics.Mode),
	)

	telemetry.SetPropagator()
	var shutdownTracer func(context.Context) error
	if cfg.OTel.Enabled {
		shutdownTracer, err = telemetry.InitTracer(cfg.OTel.Endpoint, cfg.App.Name, cfg.App.Version)
		if err != nil {
			logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			logger.Info("OpenTelemetry tracer initialized", zap.String("endpoint", cfg.OTel.Endpoint))
		}
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize stores", zap.Error(err))
	}
	defer st.close()

	linkSvc := links.NewService(st.links, st.counter, st.recorder, links.Options{
		MetricsMode:  links.MetricsMode(cfg.Metrics.Mode),
		DefaultLimit: cfg.Metrics.DefaultLimit,
		ClickTimeout: cfg.Clicks.Timeout,
	})

	routerOpts := httpTransport.DefaultRouterOptions()
	routerOpts.ServiceName = cfg.App.Name
	routerOpts.LinksHandlerOptions.RedirectStatus = cfg.Redirect.Status

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpTransport.NewRouter(linkSvc, routerOpts),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-sigCtx.Done()

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}
		if err := linkSvc.Wait(shutdownCtx); err != nil {
			logger.Warn("Pending click recordings did not finish", zap.Error(err))
		}
		if shutdownTracer != nil {
			if err := shutdownTracer(shutdownCtx); err != nil {
				logger.Warn("Failed to shutdown tracer", zap.Error(err))
			}
		}
	}()

	logger.Info("Server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.App.Env),
		zap.String("address", fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)),
	)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server error", zap.Error(err))
	}

	<-stopped
	logger.Info("Server stopped gracefully")
}
