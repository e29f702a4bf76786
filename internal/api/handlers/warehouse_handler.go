// server/internal/api/handlers/warehouse_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warehouse-transfer-api-server/internal/gateway"
)

type WarehouseHandler struct {
	Gateway *gateway.Client
}

// GetWarehouses lấy danh sách kho (để chọn kho đích).
func (h *WarehouseHandler) GetWarehouses(c *gin.Context) {
	token := c.GetString("user_token")

	warehouses, err := h.Gateway.FetchWarehouses(c.Request.Context(), token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, warehouses)
}

// GetProducts lấy danh mục sản phẩm (cho chế độ nhập thủ công).
func (h *WarehouseHandler) GetProducts(c *gin.Context) {
	token := c.GetString("user_token")

	products, err := h.Gateway.FetchProducts(c.Request.Context(), token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}
