package relational

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository inserts orders with their dependent rows using GORM models.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed order repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	OrderID    int64     `gorm:"primaryKey;autoIncrement;column:OrderID"`
	SupplierID int64     `gorm:"column:SupplierID"`
	OrderDate  time.Time `gorm:"column:OrderDate;type:date"`
	Status     string    `gorm:"column:Status;type:varchar(20)"`
}

func (orderRecord) TableName() string { return domain.TableOrder }

type orderItemRecord struct {
	OrderItemID int64           `gorm:"primaryKey;autoIncrement;column:OrderItemID"`
	OrderID     int64           `gorm:"column:OrderID"`
	ProductID   int64           `gorm:"column:ProductID"`
	Quantity    int32           `gorm:"column:Quantity"`
	Price       decimal.Decimal `gorm:"column:Price;type:decimal(10,2)"`
}

func (orderItemRecord) TableName() string { return domain.TableOrderItem }

type shipmentRecord struct {
	ShipmentID     int64     `gorm:"primaryKey;autoIncrement;column:ShipmentID"`
	OrderID        int64     `gorm:"column:OrderID"`
	ShipmentDate   time.Time `gorm:"column:ShipmentDate;type:date"`
	TrackingNumber string    `gorm:"column:TrackingNumber;type:varchar(100)"`
}

func (shipmentRecord) TableName() string { return domain.TableShipment }

// Insert writes the order, its items and its shipments in one transaction and
// returns the closure with generated identifiers.
func (r *Repository) Insert(ctx context.Context, closure *domain.OrderClosure) (*domain.OrderClosure, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if closure == nil {
		return nil, errors.New("order is nil")
	}
	order := orderRecord{
		SupplierID: closure.Order.SupplierID,
		OrderDate:  closure.Order.OrderDate.Midnight(),
		Status:     string(closure.Order.Status),
	}
	items := make([]orderItemRecord, 0, len(closure.Items))
	shipments := make([]shipmentRecord, 0, len(closure.Shipments))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, item := range closure.Items {
			items = append(items, orderItemRecord{
				OrderID:   order.OrderID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}
		for _, shipment := range closure.Shipments {
			shipments = append(shipments, shipmentRecord{
				OrderID:        order.OrderID,
				ShipmentDate:   shipment.ShipmentDate.Midnight(),
				TrackingNumber: shipment.TrackingNumber,
			})
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		if len(shipments) > 0 {
			if err := tx.Create(&shipments).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", classify(err))
	}

	out := &domain.OrderClosure{
		Order:     closure.Order,
		Items:     make([]domain.OrderItem, 0, len(items)),
		Shipments: make([]domain.Shipment, 0, len(shipments)),
	}
	out.Order.ID = order.OrderID
	for _, rec := range items {
		out.Items = append(out.Items, domain.OrderItem{
			ID:        rec.OrderItemID,
			OrderID:   rec.OrderID,
			ProductID: rec.ProductID,
			Quantity:  rec.Quantity,
			Price:     rec.Price,
		})
	}
	for _, rec := range shipments {
		out.Shipments = append(out.Shipments, domain.Shipment{
			ID:             rec.ShipmentID,
			OrderID:        rec.OrderID,
			ShipmentDate:   domain.DateOf(rec.ShipmentDate),
			TrackingNumber: rec.TrackingNumber,
		})
	}
	return out, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return fmt.Errorf("%w: order repository not configured", ports.ErrStoreUnavailable)
	}
	return nil
}
