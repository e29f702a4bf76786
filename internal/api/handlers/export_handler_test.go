package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"warehouse-transfer-api-server/internal/gateway"
	"warehouse-transfer-api-server/internal/models"
)

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/export-requests", nil)
	c.Set("user_warehouse_id", "WH-1")
	c.Set("user_role", "staff")
	c.Set("user_token", "session-token")
	return c, w
}

func TestGetExportRequestsGroupsLines(t *testing.T) {
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/WarehouseRequestExport/warehouse/WH-1", r.URL.Path)
		json.NewEncoder(w).Encode([]models.ExportRequestLine{
			{RequestExportID: "REQ-1", ProductName: "X", RemainingQuantity: 5, OrderCode: "ORD-1", AgencyName: "Agency A"},
			{RequestExportID: "REQ-1", ProductName: "Y", RemainingQuantity: 0, OrderCode: "ORD-1", AgencyName: "Agency A"},
		})
	}))
	defer upstream.Close()

	handler := &ExportHandler{Gateway: gateway.NewClient(upstream.URL, 5*time.Second)}

	c, w := setupTestContext()
	handler.GetExportRequests(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Groups []models.GroupedExportRequest `json:"groups"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Groups, 1)
	assert.Equal(t, "REQ-1", resp.Groups[0].RequestExportID)
	// Dòng đã đủ hàng không vào nhóm.
	assert.Len(t, resp.Groups[0].Products, 1)
	assert.Equal(t, "X", resp.Groups[0].Products[0].ProductName)
}

func TestGetExportRequestsUpstreamDown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	handler := &ExportHandler{Gateway: gateway.NewClient(upstream.URL, time.Second)}

	c, w := setupTestContext()
	handler.GetExportRequests(c)

	// Lỗi mạng upstream là 502, không phải crash.
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetExportRequestsForwardsUpstreamRejection(t *testing.T) {
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer upstream.Close()

	handler := &ExportHandler{Gateway: gateway.NewClient(upstream.URL, 5*time.Second)}

	c, w := setupTestContext()
	handler.GetExportRequests(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
