package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-inventory-dashboard/internal/platform/retry"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "RELATIONAL_DRIVER", "RELATIONAL_DSN", "POSTGRES_DSN", "MONGO_URI", "MONGO_DATABASE",
		"ARCHIVE_COLLECTION", "STORE_CALL_TIMEOUT_MS", "STORE_RETRY_MAX_ATTEMPTS", "AMQP_URL",
		"AMQP_EXCHANGE", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "postgres", cfg.RelationalDriver)
	require.Empty(t, cfg.RelationalDSN)
	require.Equal(t, "deleted_order", cfg.ArchiveCollection)
	require.Equal(t, retry.DefaultPolicy(), cfg.StorePolicy)
	require.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	require.False(t, cfg.TemporalDisabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("RELATIONAL_DRIVER", "MySQL")
	t.Setenv("POSTGRES_DSN", "ignored")
	t.Setenv("RELATIONAL_DSN", "user:pass@tcp(db:3306)/inventory?parseTime=true&loc=UTC")
	t.Setenv("STORE_CALL_TIMEOUT_MS", "250")
	t.Setenv("STORE_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("TEMPORAL_DISABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "mysql", cfg.RelationalDriver)
	require.Equal(t, "user:pass@tcp(db:3306)/inventory?parseTime=true&loc=UTC", cfg.RelationalDSN)
	require.Equal(t, 250*time.Millisecond, cfg.StorePolicy.CallTimeout)
	require.Equal(t, 5, cfg.StorePolicy.MaxAttempts)
	require.True(t, cfg.TemporalDisabled)
}

func TestLoadConfig_PostgresDSNFallback(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("POSTGRES_DSN", "host=db user=app")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "host=db user=app", cfg.RelationalDSN)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("RELATIONAL_DRIVER", "oracle")
	_, err := LoadConfig()
	require.Error(t, err)

	clearConfigEnv(t)
	t.Setenv("STORE_RETRY_MAX_ATTEMPTS", "0")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "STORE_RETRY_MAX_ATTEMPTS")
}
