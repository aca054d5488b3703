// Package database opens the relational store behind GORM for the supported
// dialects.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// InMemoryDSN is a private SQLite database with foreign keys enforced.
const InMemoryDSN = "file::memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverPostgres, "postgresql":
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported relational driver %q", driver)
	}
}

// Connect opens a relational connection via GORM and verifies connectivity.
// MySQL DSNs should carry parseTime=true&loc=UTC so DATE columns decode as
// calendar dates.
func Connect(ctx context.Context, driver, dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%s DSN is empty", driver)
	}
	d, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if d.Name() == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// OpenInMemory opens a throwaway SQLite database. A single connection keeps
// every statement on the same in-memory database.
func OpenInMemory(ctx context.Context) (*gorm.DB, error) {
	return Connect(ctx, DriverSQLite, InMemoryDSN)
}

// ConnectOrFallback dials the configured database. Only an empty DSN falls
// back to an in-memory SQLite database; a configured store that cannot be
// reached is an error so orders are never deleted against a throwaway copy.
// The returned cleanup closes whichever connection was opened.
func ConnectOrFallback(ctx context.Context, driver, dsn string, logger *slog.Logger) (*gorm.DB, func(), error) {
	if strings.TrimSpace(dsn) != "" {
		db, err := Connect(ctx, driver, dsn)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect %s: %w", driver, err)
		}
		if logger != nil {
			logger.Info("relational connection established", slog.String("driver", driver))
		}
		return db, closer(db), nil
	}
	if logger != nil {
		logger.Warn("RELATIONAL_DSN not set, falling back to in-memory sqlite")
	}
	db, err := OpenInMemory(ctx)
	if err != nil {
		return nil, func() {}, err
	}
	return db, closer(db), nil
}

func closer(db *gorm.DB) func() {
	return func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
