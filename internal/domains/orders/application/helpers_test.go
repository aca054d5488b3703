package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/persistence/relational"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/database"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/migrations"
	"github.com/Apurer/go-inventory-dashboard/internal/platform/retry"
)

var testPolicy = retry.Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond, CallTimeout: 5 * time.Second}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, migrations.Run(db))
	return db
}

// seedOrder inserts an order with a fixed identifier, n items priced 19.99 and
// 0.1 alternately, and m shipments.
func seedOrder(t *testing.T, db *gorm.DB, orderID int64, items, shipments int) {
	t.Helper()
	orderDate := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Exec(`INSERT INTO "Order" ("OrderID", "SupplierID", "OrderDate", "Status") VALUES (?, ?, ?, ?)`,
		orderID, 3, orderDate, "Pending").Error)
	prices := []string{"19.99", "0.10"}
	for i := 0; i < items; i++ {
		require.NoError(t, db.Exec(`INSERT INTO "OrderItem" ("OrderID", "ProductID", "Quantity", "Price") VALUES (?, ?, ?, ?)`,
			orderID, i+1, i+1, prices[i%len(prices)]).Error)
	}
	for i := 0; i < shipments; i++ {
		require.NoError(t, db.Exec(`INSERT INTO "Shipment" ("OrderID", "ShipmentDate", "TrackingNumber") VALUES (?, ?, ?)`,
			orderID, orderDate.AddDate(0, 0, i+1), fmt.Sprintf("TRK-%d-%d", orderID, i)).Error)
	}
}

func countRows(t *testing.T, store ports.Reader, orderID int64) (orders, items, shipments int64) {
	t.Helper()
	ctx := context.Background()
	var err error
	orders, err = store.CountMatching(ctx, domain.TableOrder, domain.ColumnOrderID, orderID)
	require.NoError(t, err)
	items, err = store.CountMatching(ctx, domain.TableOrderItem, domain.ColumnOrderID, orderID)
	require.NoError(t, err)
	shipments, err = store.CountMatching(ctx, domain.TableShipment, domain.ColumnOrderID, orderID)
	require.NoError(t, err)
	return orders, items, shipments
}

type fixture struct {
	db      *gorm.DB
	store   *relational.Store
	archive *memory.ArchiveStore
}

func newFixture(t *testing.T) fixture {
	db := newTestDB(t)
	return fixture{db: db, store: relational.NewStore(db), archive: memory.NewArchiveStore()}
}

// flakyArchive fails appends while down is set.
type flakyArchive struct {
	ports.ArchiveStore
	mu      sync.Mutex
	down    bool
	attempt int
}

func (f *flakyArchive) Append(ctx context.Context, record domain.ArchivedOrderRecord) error {
	f.mu.Lock()
	f.attempt++
	down := f.down
	f.mu.Unlock()
	if down {
		return fmt.Errorf("%w: connection refused", ports.ErrStoreUnavailable)
	}
	return f.ArchiveStore.Append(ctx, record)
}

func (f *flakyArchive) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

// lostAckArchive stores the record but reports the append as failed while
// lost is set, as when the acknowledgement never reaches the caller.
type lostAckArchive struct {
	ports.ArchiveStore
	mu   sync.Mutex
	lost bool
}

func (l *lostAckArchive) Append(ctx context.Context, record domain.ArchivedOrderRecord) error {
	if err := l.ArchiveStore.Append(ctx, record); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lost {
		return fmt.Errorf("%w: i/o timeout", ports.ErrStoreUnavailable)
	}
	return nil
}

func (l *lostAckArchive) setLost(lost bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lost = lost
}

// faultStore injects failures into a real relational store.
type faultStore struct {
	ports.RelationalStore
	mu            sync.Mutex
	beginFailures int
	execErr       map[string]error
	skipDelete    map[string]bool
	transactions  int
}

func (f *faultStore) ExecuteInTransaction(ctx context.Context, steps ...ports.Step) error {
	f.mu.Lock()
	f.transactions++
	if f.beginFailures > 0 {
		f.beginFailures--
		f.mu.Unlock()
		return fmt.Errorf("%w: connection reset by peer", ports.ErrStoreUnavailable)
	}
	f.mu.Unlock()

	wrapped := make([]ports.Step, 0, len(steps))
	for _, step := range steps {
		step := step
		wrapped = append(wrapped, func(ctx context.Context, tx ports.Tx) error {
			return step(ctx, &faultTx{Tx: tx, store: f})
		})
	}
	return f.RelationalStore.ExecuteInTransaction(ctx, wrapped...)
}

type faultTx struct {
	ports.Tx
	store *faultStore
}

func (t *faultTx) Exec(ctx context.Context, stmt ports.Statement) (int64, error) {
	if err, ok := t.store.execErr[stmt.Table]; ok && stmt.Kind == ports.KindDelete {
		return 0, err
	}
	if t.store.skipDelete[stmt.Table] && stmt.Kind == ports.KindDelete {
		return 0, nil
	}
	return t.Tx.Exec(ctx, stmt)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderArchivedEvent
	err    error
}

func (p *recordingPublisher) PublishOrderArchived(_ context.Context, event domain.OrderArchivedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}
