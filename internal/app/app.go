package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stasstaf/shopcart/pkg/health"
	pkgkafka "github.com/stasstaf/shopcart/pkg/kafka"
	"github.com/stasstaf/shopcart/pkg/tracing"

	"github.com/stasstaf/shopcart/internal/chat"
	"github.com/stasstaf/shopcart/internal/config"
	"github.com/stasstaf/shopcart/internal/event"
	handler "github.com/stasstaf/shopcart/internal/handler/http"
	"github.com/stasstaf/shopcart/internal/service"
	"github.com/stasstaf/shopcart/internal/store"
)

// App wires together all dependencies and runs the shopcart service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing is a no-op unless enabled in config.
	tracingCfg := tracing.DefaultConfig("shopcart")
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.OTELEndpoint
	tracingCfg.SampleRate = cfg.OTELSampleRate
	tracingCfg.Enabled = cfg.OTELEnabled

	tracingShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Domain events are published only when brokers are configured.
	var kafkaProducer *pkgkafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		kafkaProducer = pkgkafka.NewProducer(kafkaCfg, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka brokers not configured, domain events disabled")
	}

	// Build the dependency graph.
	memory := store.NewMemory()
	producer := event.NewProducer(kafkaProducer, logger)
	itemService := service.NewItemService(memory, producer, logger)
	cartService := service.NewCartService(memory, producer, logger)
	computeService := service.NewComputeService()
	hub := chat.NewHub(logger)

	// Health checks. The store is process memory, so liveness implies
	// readiness; kafka is the only external dependency and only when enabled.
	healthHandler := health.NewHandler()
	if kafkaProducer != nil {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return kafkaProducer.Ping(ctx)
		})
	}

	router := handler.NewRouter(itemService, cartService, computeService, hub, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		producer:        kafkaProducer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
