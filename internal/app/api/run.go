package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	ordersmemory "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/memory"
	ordersrabbitmq "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/messaging/rabbitmq"
	ordersobs "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/observability"
	ordersmongo "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/persistence/mongo"
	ordersrelational "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/persistence/relational"
	ordersworkflows "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/database"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/migrations"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/mongodb"
	platformobservability "github.com/Apurer/go-inventory-dashboard/internal/platform/observability"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/rabbitmq"
)

// ServiceName identifies the API process in traces and metrics.
const ServiceName = "inventory-dashboard-api"

// Run boots the inventory dashboard HTTP API with observability, stores, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, ServiceName,
		platformobservability.WithAttributes(cfg.TelemetryAttributes()...))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderService, cleanup, err := NewOrdersService(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()

	var archiver ordersports.ArchiveOrchestrator = ordersworkflows.NewInlineArchiveWorkflows(orderService)
	if temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, archiving inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		archiver = ordersworkflows.NewTemporalArchiveWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := NewRouter(orderService, archiver)
	addr := ":" + cfg.Port
	logger.Info("Inventory dashboard API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("Inventory dashboard API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// TelemetryAttributes describes the stores a process built from cfg is wired to.
func (c Config) TelemetryAttributes() []attribute.KeyValue {
	driver := c.RelationalDriver
	if c.RelationalDSN == "" {
		driver = database.DriverSQLite
	}
	attrs := []attribute.KeyValue{platformobservability.RelationalDriverKey.String(driver)}
	if c.MongoURI != "" {
		attrs = append(attrs,
			platformobservability.ArchiveDatabaseKey.String(c.MongoDatabase),
			platformobservability.ArchiveCollectionKey.String(c.ArchiveCollection))
	}
	return attrs
}

// NewOrdersService opens the relational and document stores, migrates the
// schema, and wires the decorated orders service. Stores left unconfigured
// fall back to in-memory implementations; configured stores that cannot be
// reached fail startup.
func NewOrdersService(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (ordersports.Service, func(), error) {
	logger := effectiveLogger(instruments)
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	db, closeDB, err := database.ConnectOrFallback(ctx, cfg.RelationalDriver, cfg.RelationalDSN, logger)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to open relational store: %w", err)
	}
	cleanups = append(cleanups, closeDB)
	if err := migrations.Run(db); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("failed to migrate relational store: %w", err)
	}

	archive, closeArchive, err := buildArchiveStore(ctx, cfg, logger)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("failed to open archive store: %w", err)
	}
	cleanups = append(cleanups, closeArchive)

	opts := []ordersapp.Option{
		ordersapp.WithLogger(logger),
		ordersapp.WithStorePolicy(cfg.StorePolicy),
	}
	if channel, closeChannel := rabbitmq.ConnectOrNil(cfg.AMQPURL, cfg.AMQPExchange, logger); channel != nil {
		cleanups = append(cleanups, closeChannel)
		opts = append(opts, ordersapp.WithEventPublisher(ordersrabbitmq.NewPublisher(channel, cfg.AMQPExchange)))
	}

	core := ordersapp.NewService(
		ordersrelational.NewRepository(db),
		ordersrelational.NewStore(db),
		archive,
		opts...,
	)
	service := ordersobs.New(
		core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return service, cleanup, nil
}

func buildArchiveStore(ctx context.Context, cfg Config, logger *slog.Logger) (ordersports.ArchiveStore, func(), error) {
	mongoClient, disconnect, err := mongodb.ConnectIfConfigured(ctx, cfg.MongoURI, logger)
	if err != nil {
		return nil, func() {}, err
	}
	if mongoClient == nil {
		return ordersmemory.NewArchiveStore(), func() {}, nil
	}
	store := ordersmongo.NewArchiveStore(mongoClient.Database(cfg.MongoDatabase).Collection(cfg.ArchiveCollection))
	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure archive indexes", slog.String("error", err.Error()))
	}
	logger.Info("archive store configured with mongo",
		slog.String("database", cfg.MongoDatabase), slog.String("collection", cfg.ArchiveCollection))
	return store, disconnect, nil
}

// ConnectTemporal dials Temporal with tracing and structured logging, unless disabled.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
