package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-inventory-dashboard/internal/app/api"
	platformobservability "github.com/Apurer/go-inventory-dashboard/internal/platform/observability"
	orderactivities "github.com/Apurer/go-inventory-dashboard/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-inventory-dashboard/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "inventory-dashboard-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithAttributes(cfg.TelemetryAttributes()...),
		platformobservability.WithAttributes(platformobservability.TaskQueueKey.String(orderworkflows.ArchivalTaskQueue)))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderService, cleanup, err := api.NewOrdersService(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to build orders service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()
	orderActivities := orderactivities.NewActivities(orderService)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.ArchivalTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.ArchiveAndDeleteWorkflow, workflow.RegisterOptions{Name: orderworkflows.ArchiveAndDeleteWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.ArchiveAndDelete, activity.RegisterOptions{Name: orderactivities.ArchiveAndDeleteActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.ArchivalTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
