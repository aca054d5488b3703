package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
)

var (
	ErrInvalidOrderID    = errors.New("order id must be greater than zero")
	ErrInvalidSupplierID = errors.New("supplier id must be greater than zero")
	ErrInvalidItemID     = errors.New("order item id must be greater than zero")
	ErrInvalidProductID  = errors.New("product id must be greater than zero")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidDate       = errors.New("date is invalid")
	ErrMissingDate       = errors.New("date is required")
)

// Order is the purchase order placed with a supplier.
type Order struct {
	ID         int64
	SupplierID int64
	OrderDate  Date
	Status     Status
}

// OrderItem is one product line of an order.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int32
	Price     decimal.Decimal
}

// Shipment tracks delivery of an order.
type Shipment struct {
	ID             int64
	OrderID        int64
	ShipmentDate   Date
	TrackingNumber string
}

// OrderClosure is an order together with every row that depends on it.
type OrderClosure struct {
	Order     Order
	Items     []OrderItem
	Shipments []Shipment
}

// NewOrder validates and constructs an order. An empty status defaults to Pending.
func NewOrder(supplierID int64, orderDate Date, status Status) (*Order, error) {
	order := &Order{SupplierID: supplierID, OrderDate: orderDate}
	if err := order.UpdateStatus(status); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the order row.
func (o *Order) Validate() error {
	if o.SupplierID <= 0 {
		return ErrInvalidSupplierID
	}
	if o.OrderDate.IsZero() {
		return ErrMissingDate
	}
	if !IsValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus only accepts known states and defaults to Pending.
func (o *Order) UpdateStatus(status Status) error {
	if status == "" {
		status = StatusPending
	}
	if !IsValidStatus(status) {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}

// NewOrderItem validates and constructs an order line.
func NewOrderItem(productID int64, quantity int32, price decimal.Decimal) (*OrderItem, error) {
	item := &OrderItem{ProductID: productID, Quantity: quantity, Price: price}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

func (i *OrderItem) Validate() error {
	if i.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// NewShipment validates and constructs a shipment.
func NewShipment(shipmentDate Date, trackingNumber string) (*Shipment, error) {
	if shipmentDate.IsZero() {
		return nil, ErrMissingDate
	}
	return &Shipment{ShipmentDate: shipmentDate, TrackingNumber: trackingNumber}, nil
}

// IsValidStatus reports whether status is one of the known order states.
func IsValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusShipped, StatusDelivered:
		return true
	default:
		return false
	}
}
