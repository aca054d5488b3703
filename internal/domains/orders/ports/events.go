package ports

import (
	"context"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
)

// EventPublisher announces committed archive-then-delete operations.
type EventPublisher interface {
	PublishOrderArchived(ctx context.Context, event domain.OrderArchivedEvent) error
}
