package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the order schema. Dependent tables reference Order with
// ON DELETE RESTRICT so an order can never be removed while rows still point at it.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&orderItemRecord{},
		&shipmentRecord{},
	)
}

// Order schema mirrors the relational orders adapter.
type orderRecord struct {
	OrderID    int64     `gorm:"primaryKey;autoIncrement;column:OrderID"`
	SupplierID int64     `gorm:"column:SupplierID;not null;index"`
	OrderDate  time.Time `gorm:"column:OrderDate;type:date;not null"`
	Status     string    `gorm:"column:Status;type:varchar(20);not null"`

	Items     []orderItemRecord `gorm:"foreignKey:OrderID;references:OrderID;constraint:OnDelete:RESTRICT"`
	Shipments []shipmentRecord  `gorm:"foreignKey:OrderID;references:OrderID;constraint:OnDelete:RESTRICT"`
}

func (orderRecord) TableName() string { return "Order" }

type orderItemRecord struct {
	OrderItemID int64           `gorm:"primaryKey;autoIncrement;column:OrderItemID"`
	OrderID     int64           `gorm:"column:OrderID;not null;index"`
	ProductID   int64           `gorm:"column:ProductID;not null"`
	Quantity    int32           `gorm:"column:Quantity;not null"`
	Price       decimal.Decimal `gorm:"column:Price;type:decimal(10,2);not null"`
}

func (orderItemRecord) TableName() string { return "OrderItem" }

type shipmentRecord struct {
	ShipmentID     int64     `gorm:"primaryKey;autoIncrement;column:ShipmentID"`
	OrderID        int64     `gorm:"column:OrderID;not null;index"`
	ShipmentDate   time.Time `gorm:"column:ShipmentDate;type:date"`
	TrackingNumber string    `gorm:"column:TrackingNumber;type:varchar(100)"`
}

func (shipmentRecord) TableName() string { return "Shipment" }
