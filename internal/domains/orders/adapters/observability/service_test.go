package observability

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/application"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

type stubService struct {
	ports.Service
	result *domain.ArchiveResult
	err    error
}

func (s stubService) ArchiveAndDeleteOrder(context.Context, int64) (*domain.ArchiveResult, error) {
	return s.result, s.err
}

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				key := m.Name
				if outcome, ok := dp.Attributes.Value("outcome"); ok {
					key = fmt.Sprintf("%s{%s}", m.Name, outcome.AsString())
				}
				out[key] += dp.Value
			}
		}
	}
	return out
}

func TestArchiveAndDeleteOrder_RecordsSuccess(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	svc := New(stubService{result: &domain.ArchiveResult{OrderID: 42, ArchiveID: "a-1", OrderItems: 2, Shipments: 1}},
		WithMeter(meter), WithLogger(logger))

	result, err := svc.ArchiveAndDeleteOrder(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "a-1", result.ArchiveID)
	require.Equal(t, int64(1), collectSums(t, reader)["orders.service.orders_archived"])
	require.Contains(t, logs.String(), `"archive.id":"a-1"`)
}

func TestArchiveAndDeleteOrder_RecordsFailureOutcome(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	partial := &application.PartialFailureError{OrderID: 9, ArchiveID: "a-9", Err: ports.ErrStoreUnavailable}
	svc := New(stubService{result: &domain.ArchiveResult{OrderID: 9, ArchiveID: "a-9"}, err: partial}, WithMeter(meter))

	result, err := svc.ArchiveAndDeleteOrder(context.Background(), 9)
	require.ErrorIs(t, err, application.ErrPartialFailure)
	require.Equal(t, "a-9", result.ArchiveID)

	sums := collectSums(t, reader)
	require.Equal(t, int64(1), sums["orders.service.archive_failures{partial-failure}"])
	require.Zero(t, sums["orders.service.orders_archived"])
}

func TestNew_WithoutOptionsIsSafe(t *testing.T) {
	svc := New(stubService{err: ports.ErrNotFound})
	_, err := svc.ArchiveAndDeleteOrder(context.Background(), 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
