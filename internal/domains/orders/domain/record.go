package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Relational table and column names.
const (
	TableOrder     = "Order"
	TableOrderItem = "OrderItem"
	TableShipment  = "Shipment"

	ColumnOrderID        = "OrderID"
	ColumnSupplierID     = "SupplierID"
	ColumnOrderDate      = "OrderDate"
	ColumnStatus         = "Status"
	ColumnOrderItemID    = "OrderItemID"
	ColumnProductID      = "ProductID"
	ColumnQuantity       = "Quantity"
	ColumnPrice          = "Price"
	ColumnShipmentID     = "ShipmentID"
	ColumnShipmentDate   = "ShipmentDate"
	ColumnTrackingNumber = "TrackingNumber"
)

// Record is a single row keyed by column name. Values are int64, string,
// Date, decimal.Decimal or nil as decoded by the relational adapter.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// OrderFromRecord maps an Order row.
func OrderFromRecord(r Record) (Order, error) {
	var (
		o   Order
		err error
	)
	if o.ID, err = intField(r, ColumnOrderID); err != nil {
		return Order{}, err
	}
	if o.SupplierID, err = intField(r, ColumnSupplierID); err != nil {
		return Order{}, err
	}
	if o.OrderDate, err = dateField(r, ColumnOrderDate); err != nil {
		return Order{}, err
	}
	status, err := textField(r, ColumnStatus)
	if err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	return o, nil
}

// OrderItemFromRecord maps an OrderItem row.
func OrderItemFromRecord(r Record) (OrderItem, error) {
	var (
		i   OrderItem
		err error
	)
	if i.ID, err = intField(r, ColumnOrderItemID); err != nil {
		return OrderItem{}, err
	}
	if i.OrderID, err = intField(r, ColumnOrderID); err != nil {
		return OrderItem{}, err
	}
	if i.ProductID, err = intField(r, ColumnProductID); err != nil {
		return OrderItem{}, err
	}
	qty, err := intField(r, ColumnQuantity)
	if err != nil {
		return OrderItem{}, err
	}
	i.Quantity = int32(qty)
	if i.Price, err = decimalField(r, ColumnPrice); err != nil {
		return OrderItem{}, err
	}
	return i, nil
}

// ShipmentFromRecord maps a Shipment row.
func ShipmentFromRecord(r Record) (Shipment, error) {
	var (
		s   Shipment
		err error
	)
	if s.ID, err = intField(r, ColumnShipmentID); err != nil {
		return Shipment{}, err
	}
	if s.OrderID, err = intField(r, ColumnOrderID); err != nil {
		return Shipment{}, err
	}
	if s.ShipmentDate, err = dateField(r, ColumnShipmentDate); err != nil {
		return Shipment{}, err
	}
	if s.TrackingNumber, err = textField(r, ColumnTrackingNumber); err != nil {
		return Shipment{}, err
	}
	return s, nil
}

func intField(r Record, column string) (int64, error) {
	switch v := r[column].(type) {
	case int64:
		return v, nil
	case nil:
		return 0, nil
	default:
		return 0, fieldTypeError(column, v)
	}
}

func textField(r Record, column string) (string, error) {
	switch v := r[column].(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		return "", fieldTypeError(column, v)
	}
}

func dateField(r Record, column string) (Date, error) {
	switch v := r[column].(type) {
	case Date:
		return v, nil
	case nil:
		return Date{}, nil
	default:
		return Date{}, fieldTypeError(column, v)
	}
}

func decimalField(r Record, column string) (decimal.Decimal, error) {
	switch v := r[column].(type) {
	case decimal.Decimal:
		return v, nil
	case nil:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fieldTypeError(column, v)
	}
}

func fieldTypeError(column string, v any) error {
	return fmt.Errorf("column %s has unexpected type %T", column, v)
}
