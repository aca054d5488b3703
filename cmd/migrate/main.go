package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-inventory-dashboard/internal/app/api"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/database"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/migrations"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.RelationalDSN == "" {
		log.Fatal("RELATIONAL_DSN not set; nothing to migrate")
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, err := database.Connect(ctx, cfg.RelationalDriver, cfg.RelationalDSN)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", cfg.RelationalDriver, err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	logger.Info("schema migration completed", slog.String("driver", cfg.RelationalDriver))
}
