package ports

import (
	"context"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
)

// ArchiveStore is the append-only document collection of deleted orders.
type ArchiveStore interface {
	// Append writes one record. Appending a record whose ArchiveID already
	// exists is a no-op success.
	Append(ctx context.Context, record domain.ArchivedOrderRecord) error
	// FindByOrderID lists archive records for an order, oldest first.
	FindByOrderID(ctx context.Context, orderID int64) ([]domain.ArchivedOrderRecord, error)
}
