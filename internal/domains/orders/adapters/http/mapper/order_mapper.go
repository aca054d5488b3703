package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

// PlaceOrderRequest is the body of POST /v1/orders.
type PlaceOrderRequest struct {
	SupplierID int64             `json:"supplierId" binding:"required"`
	OrderDate  domain.Date       `json:"orderDate"`
	Status     string            `json:"status"`
	Items      []OrderItemInput  `json:"items"`
	Shipments  []ShipmentRequest `json:"shipments"`
}

type OrderItemInput struct {
	ProductID int64           `json:"productId"`
	Quantity  int32           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type ShipmentRequest struct {
	ShipmentDate   domain.Date `json:"shipmentDate"`
	TrackingNumber string      `json:"trackingNumber"`
}

// UpdateStatusRequest is the body of PATCH /v1/orders/:orderId/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderRequest is the body of PUT /v1/orders/:orderId.
type UpdateOrderRequest struct {
	SupplierID int64       `json:"supplierId" binding:"required"`
	OrderDate  domain.Date `json:"orderDate"`
	Status     string      `json:"status"`
}

// ToOrderDetailsInput converts the request into the service input.
func ToOrderDetailsInput(req UpdateOrderRequest) ports.OrderDetailsInput {
	return ports.OrderDetailsInput{
		SupplierID: req.SupplierID,
		OrderDate:  req.OrderDate,
		Status:     domain.Status(req.Status),
	}
}

// ToOrderItemInput converts an item body, as sent to
// PUT /v1/orders/:orderId/items/:orderItemId, into the service input.
func ToOrderItemInput(req OrderItemInput) ports.OrderItemInput {
	return ports.OrderItemInput{ProductID: req.ProductID, Quantity: req.Quantity, Price: req.Price}
}

// Order is the transport shape of an order with its dependents.
type Order struct {
	OrderID    int64       `json:"orderId"`
	SupplierID int64       `json:"supplierId"`
	OrderDate  domain.Date `json:"orderDate"`
	Status     string      `json:"status"`
	Items      []OrderItem `json:"items"`
	Shipments  []Shipment  `json:"shipments"`
}

type OrderItem struct {
	OrderItemID int64           `json:"orderItemId"`
	ProductID   int64           `json:"productId"`
	Quantity    int32           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type Shipment struct {
	ShipmentID     int64       `json:"shipmentId"`
	ShipmentDate   domain.Date `json:"shipmentDate"`
	TrackingNumber string      `json:"trackingNumber"`
}

// Archive is the transport shape of an archive record.
type Archive struct {
	ArchiveID  string           `json:"archiveId"`
	OrderID    int64            `json:"orderId"`
	DeletedAt  time.Time        `json:"deletedAt"`
	Order      []map[string]any `json:"order"`
	OrderItems []map[string]any `json:"orderItems"`
	Shipments  []map[string]any `json:"shipments"`
}

// ToPlaceOrderInput converts the request into the service input.
func ToPlaceOrderInput(req PlaceOrderRequest) ports.PlaceOrderInput {
	input := ports.PlaceOrderInput{
		SupplierID: req.SupplierID,
		OrderDate:  req.OrderDate,
		Status:     domain.Status(req.Status),
		Items:      make([]ports.OrderItemInput, 0, len(req.Items)),
		Shipments:  make([]ports.ShipmentInput, 0, len(req.Shipments)),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, ToOrderItemInput(item))
	}
	for _, shipment := range req.Shipments {
		input.Shipments = append(input.Shipments, ports.ShipmentInput{
			ShipmentDate:   shipment.ShipmentDate,
			TrackingNumber: shipment.TrackingNumber,
		})
	}
	return input
}

// FromClosure converts a domain closure to the transport representation.
func FromClosure(closure *domain.OrderClosure) Order {
	if closure == nil {
		return Order{}
	}
	out := Order{
		OrderID:    closure.Order.ID,
		SupplierID: closure.Order.SupplierID,
		OrderDate:  closure.Order.OrderDate,
		Status:     string(closure.Order.Status),
		Items:      make([]OrderItem, 0, len(closure.Items)),
		Shipments:  make([]Shipment, 0, len(closure.Shipments)),
	}
	for _, item := range closure.Items {
		out.Items = append(out.Items, OrderItem{
			OrderItemID: item.ID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	for _, shipment := range closure.Shipments {
		out.Shipments = append(out.Shipments, Shipment{
			ShipmentID:     shipment.ID,
			ShipmentDate:   shipment.ShipmentDate,
			TrackingNumber: shipment.TrackingNumber,
		})
	}
	return out
}

// FromArchiveResult converts an archive-then-delete result to its response body.
func FromArchiveResult(result *domain.ArchiveResult) domain.OrderArchivedEvent {
	if result == nil {
		return domain.OrderArchivedEvent{}
	}
	return result.Event()
}

// FromArchives converts archive records to the transport representation.
func FromArchives(records []domain.ArchivedOrderRecord) []Archive {
	out := make([]Archive, 0, len(records))
	for _, r := range records {
		out = append(out, Archive{
			ArchiveID:  r.ArchiveID,
			OrderID:    r.OrderID,
			DeletedAt:  r.DeletedAt,
			Order:      toMaps(r.Order),
			OrderItems: toMaps(r.OrderItems),
			Shipments:  toMaps(r.Shipments),
		})
	}
	return out
}

func toMaps(records []domain.Record) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		out = append(out, map[string]any(r))
	}
	return out
}
