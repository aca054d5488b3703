package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
)

// OrderItemInput describes a line of a new order.
type OrderItemInput struct {
	ProductID int64
	Quantity  int32
	Price     decimal.Decimal
}

// ShipmentInput describes a shipment recorded with a new order.
type ShipmentInput struct {
	ShipmentDate   domain.Date
	TrackingNumber string
}

// PlaceOrderInput is the payload for PlaceOrder.
type PlaceOrderInput struct {
	SupplierID int64
	OrderDate  domain.Date
	Status     domain.Status
	Items      []OrderItemInput
	Shipments  []ShipmentInput
}

// OrderDetailsInput replaces the editable fields of an order row. An empty
// status keeps Pending semantics of NewOrder.
type OrderDetailsInput struct {
	SupplierID int64
	OrderDate  domain.Date
	Status     domain.Status
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.OrderClosure, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.OrderClosure, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.Status) (*domain.OrderClosure, error)
	UpdateOrderDetails(ctx context.Context, orderID int64, input OrderDetailsInput) (*domain.OrderClosure, error)
	UpdateOrderItem(ctx context.Context, orderID, orderItemID int64, input OrderItemInput) (*domain.OrderClosure, error)
	ArchiveAndDeleteOrder(ctx context.Context, orderID int64) (*domain.ArchiveResult, error)
	ListArchives(ctx context.Context, orderID int64) ([]domain.ArchivedOrderRecord, error)
}
