// server/internal/api/handlers/export_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warehouse-transfer-api-server/internal/gateway"
	"warehouse-transfer-api-server/internal/transfer"
)

type ExportHandler struct {
	Gateway *gateway.Client
}

// GetExportRequests lấy các dòng yêu cầu xuất kho của kho nguồn trong
// phiên, gom theo yêu cầu cho màn hình duyệt. Nhóm chỉ chứa dòng còn
// thiếu hàng; thêm ?raw=1 để nhận kèm danh sách dòng phẳng.
func (h *ExportHandler) GetExportRequests(c *gin.Context) {
	warehouseID := c.GetString("user_warehouse_id")
	token := c.GetString("user_token")

	lines, err := h.Gateway.FetchExportRequestLines(c.Request.Context(), token, warehouseID)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	groups := transfer.GroupExportRequests(lines)

	if c.Query("raw") == "1" {
		c.JSON(http.StatusOK, gin.H{"groups": groups, "lines": lines})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}
