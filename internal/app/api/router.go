package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	ordershttp "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/http"
	ordersports "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

// NewRouter mounts the operator API under /v1 with tracing and panic recovery.
func NewRouter(service ordersports.Service, archiver ordersports.ArchiveOrchestrator) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(ServiceName))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	ordershttp.NewOrdersAPI(service, archiver).Register(router.Group("/v1"))
	return router
}
