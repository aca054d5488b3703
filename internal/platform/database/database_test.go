package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectOrFallback_EmptyDSNUsesInMemory(t *testing.T) {
	db, cleanup, err := ConnectOrFallback(context.Background(), DriverPostgres, "", nil)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	require.Equal(t, DriverSQLite, db.Dialector.Name())
}

func TestConnectOrFallback_ConfiguredDSNDoesNotFallBack(t *testing.T) {
	dsn := "host=127.0.0.1 port=1 user=inventory dbname=inventory sslmode=disable connect_timeout=1"

	db, cleanup, err := ConnectOrFallback(context.Background(), DriverPostgres, dsn, nil)
	t.Cleanup(cleanup)
	require.Error(t, err)
	require.Nil(t, db)
}

func TestConnect_RejectsUnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), "oracle", "dsn")
	require.ErrorContains(t, err, "unsupported relational driver")
}
