//go:build integration

package relational

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/application"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/database"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("inventory_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Connect(ctx, database.DriverPostgres, dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestPostgres_ReadDecodesExactDecimals(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	saved := seedOrder(t, db, 1, 1)
	rows, err := NewStore(db).Read(context.Background(), ports.Select(domain.TableOrderItem,
		ports.DecimalColumn(domain.ColumnPrice),
	).Where(domain.ColumnOrderID, saved.Order.ID))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "19.99", rows[0][domain.ColumnPrice].(decimal.Decimal).StringFixed(2))

	orders, err := NewStore(db).Read(context.Background(), ports.Select(domain.TableOrder, orderColumns...).Where(domain.ColumnOrderID, saved.Order.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.Date{Year: 2024, Month: time.March, Day: 15}, orders[0][domain.ColumnOrderDate])
}

func TestPostgres_LockedReadInsideTransaction(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	saved := seedOrder(t, db, 0, 0)
	store := NewStore(db)
	err := store.ExecuteInTransaction(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		rows, err := tx.Read(ctx, ports.Select(domain.TableOrder, orderColumns...).Where(domain.ColumnOrderID, saved.Order.ID).Locked())
		if err != nil {
			return err
		}
		require.Len(t, rows, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestPostgres_DeleteWithDependentsIsRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	saved := seedOrder(t, db, 1, 0)
	err := NewStore(db).ExecuteInTransaction(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		_, err := tx.Exec(ctx, ports.DeleteFrom(domain.TableOrder).Where(domain.ColumnOrderID, saved.Order.ID))
		return err
	})
	require.Error(t, err)

	count, err := NewStore(db).CountMatching(context.Background(), domain.TableOrder, domain.ColumnOrderID, saved.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostgres_ArchiveAndDeleteOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	saved := seedOrder(t, db, 3, 2)
	archive := memory.NewArchiveStore()
	service := application.NewService(NewRepository(db), NewStore(db), archive)

	result, err := service.ArchiveAndDeleteOrder(context.Background(), saved.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.OrderItems)
	assert.Equal(t, 2, result.Shipments)

	records, err := archive.FindByOrderID(context.Background(), saved.Order.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 19.99, records[0].OrderItems[0][domain.ColumnPrice], 1e-9)

	for _, table := range []string{domain.TableOrder, domain.TableOrderItem, domain.TableShipment} {
		count, err := NewStore(db).CountMatching(context.Background(), table, domain.ColumnOrderID, saved.Order.ID)
		require.NoError(t, err)
		assert.Zero(t, count, table)
	}

	_, err = service.ArchiveAndDeleteOrder(context.Background(), saved.Order.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	assert.Equal(t, 1, archive.Len())
}
