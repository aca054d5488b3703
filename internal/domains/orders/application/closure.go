package application

import (
	"context"
	"fmt"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

// closureRows holds an order and its dependents as decoded records.
type closureRows struct {
	order     domain.Record
	items     []domain.Record
	shipments []domain.Record
}

// loadClosure reads the order row and its dependents through r. When lock is
// set the order row is read FOR UPDATE. A missing order yields ports.ErrNotFound.
func loadClosure(ctx context.Context, r ports.Reader, orderID int64, lock bool, call func(context.Context) (context.Context, context.CancelFunc)) (*closureRows, error) {
	stmt := selectOrder(orderID)
	if lock {
		stmt = stmt.Locked()
	}
	orders, err := readWith(ctx, r, stmt, call)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: order %d", ports.ErrNotFound, orderID)
	}
	items, err := readWith(ctx, r, selectOrderItems(orderID), call)
	if err != nil {
		return nil, err
	}
	shipments, err := readWith(ctx, r, selectShipments(orderID), call)
	if err != nil {
		return nil, err
	}
	return &closureRows{order: orders[0], items: items, shipments: shipments}, nil
}

func readWith(ctx context.Context, r ports.Reader, stmt ports.Statement, call func(context.Context) (context.Context, context.CancelFunc)) ([]domain.Record, error) {
	callCtx, cancel := call(ctx)
	defer cancel()
	return r.Read(callCtx, stmt)
}

func (c *closureRows) toDomain() (*domain.OrderClosure, error) {
	order, err := domain.OrderFromRecord(c.order)
	if err != nil {
		return nil, err
	}
	out := &domain.OrderClosure{
		Order:     order,
		Items:     make([]domain.OrderItem, 0, len(c.items)),
		Shipments: make([]domain.Shipment, 0, len(c.shipments)),
	}
	for _, r := range c.items {
		item, err := domain.OrderItemFromRecord(r)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, item)
	}
	for _, r := range c.shipments {
		shipment, err := domain.ShipmentFromRecord(r)
		if err != nil {
			return nil, err
		}
		out.Shipments = append(out.Shipments, shipment)
	}
	return out, nil
}
