package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	ordersmongo "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/persistence/mongo"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/database"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/retry"
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port              string
	RelationalDriver  string
	RelationalDSN     string
	MongoURI          string
	MongoDatabase     string
	ArchiveCollection string
	StorePolicy       retry.Policy
	AMQPURL           string
	AMQPExchange      string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
}

// LoadConfig reads an optional .env file and the environment, applies
// defaults, and validates basic constraints. Variables already set in the
// environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		RelationalDriver:  strings.ToLower(envDefault("RELATIONAL_DRIVER", database.DriverPostgres)),
		RelationalDSN:     envDefault("RELATIONAL_DSN", strings.TrimSpace(os.Getenv("POSTGRES_DSN"))),
		MongoURI:          strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:     envDefault("MONGO_DATABASE", "inventory"),
		ArchiveCollection: envDefault("ARCHIVE_COLLECTION", ordersmongo.DefaultCollection),
		StorePolicy:       retry.DefaultPolicy(),
		AMQPURL:           strings.TrimSpace(os.Getenv("AMQP_URL")),
		AMQPExchange:      envDefault("AMQP_EXCHANGE", "inventory.events"),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}
	switch cfg.RelationalDriver {
	case database.DriverPostgres, database.DriverMySQL, database.DriverSQLite:
	default:
		return Config{}, fmt.Errorf("RELATIONAL_DRIVER must be one of postgres, mysql, sqlite")
	}
	if ms, ok, err := positiveInt("STORE_CALL_TIMEOUT_MS"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.StorePolicy.CallTimeout = time.Duration(ms) * time.Millisecond
	}
	if attempts, ok, err := positiveInt("STORE_RETRY_MAX_ATTEMPTS"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.StorePolicy.MaxAttempts = attempts
	}
	return cfg, nil
}

func positiveInt(key string) (int, bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, false, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, true, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
