package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists new orders together with their dependent rows.
type Repository interface {
	Insert(ctx context.Context, closure *domain.OrderClosure) (*domain.OrderClosure, error)
}
