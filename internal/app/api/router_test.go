package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersworkflows "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/adapters/workflows"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clearConfigEnv(t)
	t.Setenv("TEMPORAL_DISABLED", "1")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	service, cleanup, err := NewOrdersService(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return NewRouter(service, ordersworkflows.NewInlineArchiveWorkflows(service))
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_ArchiveLifecycle(t *testing.T) {
	router := newTestServer(t)

	rec := do(router, http.MethodPost, "/v1/orders", `{
		"supplierId": 3,
		"orderDate": "2024-03-15",
		"items": [
			{"productId": 1, "quantity": 2, "price": "19.99"},
			{"productId": 2, "quantity": 1, "price": "0.10"}
		],
		"shipments": [{"shipmentDate": "2024-03-18", "trackingNumber": "TRK-1"}]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var placed struct {
		OrderID int64 `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.Positive(t, placed.OrderID)
	path := "/v1/orders/" + strconv.FormatInt(placed.OrderID, 10)

	rec = do(router, http.MethodPatch, path+"/status", `{"status":"Shipped"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(router, http.MethodPut, path, `{"supplierId":4,"orderDate":"2024-03-16","status":"Shipped"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var edited struct {
		SupplierID int64 `json:"supplierId"`
		Items      []struct {
			OrderItemID int64 `json:"orderItemId"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &edited))
	require.Equal(t, int64(4), edited.SupplierID)
	require.Len(t, edited.Items, 2)

	itemPath := path + "/items/" + strconv.FormatInt(edited.Items[0].OrderItemID, 10)
	rec = do(router, http.MethodPut, itemPath, `{"productId":1,"quantity":3,"price":"18.50"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"quantity":3`)

	rec = do(router, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var deleted map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleted))
	assert.Equal(t, float64(2), deleted["orderItems"])
	assert.Equal(t, float64(1), deleted["shipments"])
	assert.NotEmpty(t, deleted["archiveId"])

	rec = do(router, http.MethodGet, path, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodDelete, path, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodGet, path+"/archives", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var archives []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archives))
	require.Len(t, archives, 1)
	assert.Equal(t, deleted["archiveId"], archives[0]["archiveId"])
	assert.Len(t, archives[0]["orderItems"], 2)
	assert.Len(t, archives[0]["shipments"], 1)
}

func TestRouter_Healthz(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
