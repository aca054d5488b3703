package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, LogLevel("debug"))
	require.Equal(t, slog.LevelWarn, LogLevel(" WARN "))
	require.Equal(t, slog.LevelError, LogLevel("error"))
	require.Equal(t, slog.LevelInfo, LogLevel(""))
	require.Equal(t, slog.LevelInfo, LogLevel("verbose"))
}

func TestResourceAttributes_TagInventoryDeployment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")

	attrs := resourceAttributes("inventory-dashboard-api", []attribute.KeyValue{
		RelationalDriverKey.String("postgres"),
		ArchiveCollectionKey.String("deleted_order"),
		ArchiveDatabaseKey.String(""),
	})

	set := attribute.NewSet(attrs...)
	for key, want := range map[attribute.Key]string{
		"service.name":           "inventory-dashboard-api",
		"service.namespace":      ServiceNamespace,
		"deployment.environment": "staging",
		RelationalDriverKey:      "postgres",
		ArchiveCollectionKey:     "deleted_order",
	} {
		got, ok := set.Value(key)
		require.True(t, ok, key)
		require.Equal(t, want, got.AsString(), key)
	}
	_, ok := set.Value(ArchiveDatabaseKey)
	require.False(t, ok, "empty attributes are dropped")
}

func TestNewLogger_TagsService(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })
	var buf bytes.Buffer

	newLogger(&buf, "inventory-dashboard-worker").Info("worker listening")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "inventory-dashboard-worker", entry["service"])
	require.Equal(t, ServiceNamespace, entry["service.namespace"])
	require.Equal(t, "worker listening", entry["msg"])
}
