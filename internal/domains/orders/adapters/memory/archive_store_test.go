package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
)

func TestArchiveStore_AppendIsIdempotentPerArchiveID(t *testing.T) {
	store := NewArchiveStore()
	ctx := context.Background()
	record := domain.NewArchivedOrderRecord("a-1", 42, domain.Record{domain.ColumnOrderID: int64(42)}, nil, nil, time.Now())

	require.NoError(t, store.Append(ctx, record))
	require.NoError(t, store.Append(ctx, record))
	require.Equal(t, 1, store.Len())

	found, err := store.FindByOrderID(ctx, 42)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "a-1", found[0].ArchiveID)

	found, err = store.FindByOrderID(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Empty(t, found)
}

func TestArchiveStore_ReturnsCopies(t *testing.T) {
	store := NewArchiveStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, domain.NewArchivedOrderRecord("a-1", 1, domain.Record{domain.ColumnStatus: "Pending"}, nil, nil, time.Now())))

	found, err := store.FindByOrderID(ctx, 1)
	require.NoError(t, err)
	found[0].Order[0][domain.ColumnStatus] = "Mutated"

	again, err := store.FindByOrderID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Pending", again[0].Order[0][domain.ColumnStatus])
}
