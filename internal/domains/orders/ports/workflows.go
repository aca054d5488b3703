package ports

import (
	"context"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
)

// ArchiveOrchestrator runs archive-then-delete either inline or as a durable workflow.
type ArchiveOrchestrator interface {
	ArchiveOrder(ctx context.Context, orderID int64) (*domain.ArchiveResult, error)
}
