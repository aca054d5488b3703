package application

import (
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

var (
	orderColumns = []ports.Column{
		ports.IntColumn(domain.ColumnOrderID),
		ports.IntColumn(domain.ColumnSupplierID),
		ports.DateColumn(domain.ColumnOrderDate),
		ports.TextColumn(domain.ColumnStatus),
	}
	orderItemColumns = []ports.Column{
		ports.IntColumn(domain.ColumnOrderItemID),
		ports.IntColumn(domain.ColumnOrderID),
		ports.IntColumn(domain.ColumnProductID),
		ports.IntColumn(domain.ColumnQuantity),
		ports.DecimalColumn(domain.ColumnPrice),
	}
	shipmentColumns = []ports.Column{
		ports.IntColumn(domain.ColumnShipmentID),
		ports.IntColumn(domain.ColumnOrderID),
		ports.DateColumn(domain.ColumnShipmentDate),
		ports.TextColumn(domain.ColumnTrackingNumber),
	}
)

func selectOrder(orderID int64) ports.Statement {
	return ports.Select(domain.TableOrder, orderColumns...).Where(domain.ColumnOrderID, orderID)
}

func selectOrderItems(orderID int64) ports.Statement {
	return ports.Select(domain.TableOrderItem, orderItemColumns...).
		Where(domain.ColumnOrderID, orderID).
		Ordered(domain.ColumnOrderItemID)
}

func selectShipments(orderID int64) ports.Statement {
	return ports.Select(domain.TableShipment, shipmentColumns...).
		Where(domain.ColumnOrderID, orderID).
		Ordered(domain.ColumnShipmentID)
}

func deleteByOrder(table string, orderID int64) ports.Statement {
	return ports.DeleteFrom(table).Where(domain.ColumnOrderID, orderID)
}

func updateOrderStatus(orderID int64, status domain.Status) ports.Statement {
	return ports.Update(domain.TableOrder).
		SetValue(domain.ColumnStatus, string(status)).
		Where(domain.ColumnOrderID, orderID)
}

func updateOrderDetails(orderID int64, order *domain.Order) ports.Statement {
	return ports.Update(domain.TableOrder).
		SetValue(domain.ColumnSupplierID, order.SupplierID).
		SetValue(domain.ColumnOrderDate, order.OrderDate).
		SetValue(domain.ColumnStatus, string(order.Status)).
		Where(domain.ColumnOrderID, orderID)
}

func selectOrderItem(orderID, orderItemID int64) ports.Statement {
	return ports.Select(domain.TableOrderItem, orderItemColumns...).
		Where(domain.ColumnOrderItemID, orderItemID).
		Where(domain.ColumnOrderID, orderID)
}

func updateOrderItem(orderID, orderItemID int64, item *domain.OrderItem) ports.Statement {
	return ports.Update(domain.TableOrderItem).
		SetValue(domain.ColumnProductID, item.ProductID).
		SetValue(domain.ColumnQuantity, item.Quantity).
		SetValue(domain.ColumnPrice, item.Price).
		Where(domain.ColumnOrderItemID, orderItemID).
		Where(domain.ColumnOrderID, orderID)
}
