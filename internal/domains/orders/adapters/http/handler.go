package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-inventory-dashboard/internal/shared/errors"
)

// OrdersAPI wires HTTP transport with the orders service and archive orchestrator.
type OrdersAPI struct {
	service   ports.Service
	archiver  ports.ArchiveOrchestrator
	responder *apierrors.ChainedResponder
}

// NewOrdersAPI creates an OrdersAPI. When archiver is nil deletions call the service directly.
func NewOrdersAPI(service ports.Service, archiver ports.ArchiveOrchestrator) *OrdersAPI {
	return &OrdersAPI{
		service:   service,
		archiver:  archiver,
		responder: apierrors.NewChainedResponder("", ProblemFor),
	}
}

// Register mounts the order routes under group.
func (api *OrdersAPI) Register(group gin.IRoutes) {
	group.POST("/orders", api.PlaceOrder)
	group.GET("/orders/:orderId", api.GetOrder)
	group.PUT("/orders/:orderId", api.UpdateOrder)
	group.PATCH("/orders/:orderId/status", api.UpdateOrderStatus)
	group.PUT("/orders/:orderId/items/:orderItemId", api.UpdateOrderItem)
	group.DELETE("/orders/:orderId", api.DeleteOrder)
	group.GET("/orders/:orderId/archives", api.ListArchives)
}

// Post /v1/orders
// Places an order with its items and shipments
func (api *OrdersAPI) PlaceOrder(c *gin.Context) {
	var payload mapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	placed, err := api.service.PlaceOrder(c.Request.Context(), mapper.ToPlaceOrderInput(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromClosure(placed))
}

// Get /v1/orders/:orderId
// Loads an order with its items and shipments
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	id, ok := api.parseOrderID(c)
	if !ok {
		return
	}
	closure, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromClosure(closure))
}

// Patch /v1/orders/:orderId/status
// Changes the status of an order
func (api *OrdersAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := api.parseOrderID(c)
	if !ok {
		return
	}
	var payload mapper.UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	closure, err := api.service.UpdateOrderStatus(c.Request.Context(), id, domain.Status(payload.Status))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromClosure(closure))
}

// Put /v1/orders/:orderId
// Replaces the supplier, order date and status of an order
func (api *OrdersAPI) UpdateOrder(c *gin.Context) {
	id, ok := api.parseOrderID(c)
	if !ok {
		return
	}
	var payload mapper.UpdateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	closure, err := api.service.UpdateOrderDetails(c.Request.Context(), id, mapper.ToOrderDetailsInput(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromClosure(closure))
}

// Put /v1/orders/:orderId/items/:orderItemId
// Replaces the product, quantity and price of an order line
func (api *OrdersAPI) UpdateOrderItem(c *gin.Context) {
	id, ok := api.parseOrderID(c)
	if !ok {
		return
	}
	itemID, ok := api.parseID(c, "orderItemId", "order item")
	if !ok {
		return
	}
	var payload mapper.OrderItemInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	closure, err := api.service.UpdateOrderItem(c.Request.Context(), id, itemID, mapper.ToOrderItemInput(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromClosure(closure))
}

// Delete /v1/orders/:orderId
// Archives an order and its dependents, then deletes them
func (api *OrdersAPI) DeleteOrder(c *gin.Context) {
	id, ok := api.parseOrderID(c)
	if !ok {
		return
	}
	var (
		result *domain.ArchiveResult
		err    error
	)
	if api.archiver != nil {
		result, err = api.archiver.ArchiveOrder(c.Request.Context(), id)
	} else {
		result, err = api.service.ArchiveAndDeleteOrder(c.Request.Context(), id)
	}
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromArchiveResult(result))
}

// Get /v1/orders/:orderId/archives
// Lists archive records written for an order
func (api *OrdersAPI) ListArchives(c *gin.Context) {
	id, ok := api.parseOrderID(c)
	if !ok {
		return
	}
	records, err := api.service.ListArchives(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromArchives(records))
}

func (api *OrdersAPI) parseOrderID(c *gin.Context) (int64, bool) {
	return api.parseID(c, "orderId", "order")
}

func (api *OrdersAPI) parseID(c *gin.Context, param, label string) (int64, bool) {
	value := c.Param(param)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		if err == nil {
			err = errors.New("must be positive")
		}
		api.responder.Respond(c, apierrors.NewValidationProblem(map[string]string{
			param: fmt.Sprintf("invalid %s identifier %q: %v", label, value, err),
		}))
		return 0, false
	}
	return id, true
}
