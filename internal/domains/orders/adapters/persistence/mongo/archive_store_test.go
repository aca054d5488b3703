package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

func TestDocumentEncodingNormalizesValues(t *testing.T) {
	date, err := domain.ParseDate("2024-03-15")
	require.NoError(t, err)

	docs := toDocuments([]domain.Record{{
		domain.ColumnOrderDate: date,
		domain.ColumnPrice:     decimal.RequireFromString("0.1"),
	}})

	raw, err := bson.Marshal(docs[0])
	require.NoError(t, err)
	var decoded bson.M
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	stamp, ok := decoded[domain.ColumnOrderDate].(primitive.DateTime)
	require.True(t, ok, "date stored as %T", decoded[domain.ColumnOrderDate])
	require.Equal(t, "2024-03-15T00:00:00", stamp.Time().UTC().Format("2006-01-02T15:04:05"))
	require.InDelta(t, 0.1, decoded[domain.ColumnPrice], 1e-9)

	back := fromDocuments([]bson.M{decoded})
	require.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), back[0][domain.ColumnOrderDate])
}

func TestUnconfiguredArchiveStoreIsUnavailable(t *testing.T) {
	err := NewArchiveStore(nil).Append(context.Background(), domain.ArchivedOrderRecord{ArchiveID: "a"})
	require.ErrorIs(t, err, ports.ErrStoreUnavailable)
}
