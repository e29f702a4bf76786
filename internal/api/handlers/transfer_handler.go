// server/internal/api/handlers/transfer_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warehouse-transfer-api-server/internal/gateway"
	"warehouse-transfer-api-server/internal/models"
)

type TransferHandler struct {
	Gateway *gateway.Client
}

// GetTransfersBySource lấy lịch sử phiếu chuyển đi từ kho của phiên.
func (h *TransferHandler) GetTransfersBySource(c *gin.Context) {
	warehouseID := c.GetString("user_warehouse_id")
	token := c.GetString("user_token")

	records, err := h.Gateway.FetchTransfersBySource(c.Request.Context(), token, warehouseID)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetTransfersByDestination lấy lịch sử phiếu chuyển đến kho của phiên.
func (h *TransferHandler) GetTransfersByDestination(c *gin.Context) {
	warehouseID := c.GetString("user_warehouse_id")
	token := c.GetString("user_token")

	records, err := h.Gateway.FetchTransfersByDestination(c.Request.Context(), token, warehouseID)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

type ApproveTransferRequest struct {
	WarehouseTransferRequestID string `json:"warehouseTransferRequestId" binding:"required"`
}

// ApproveTransfer chuyển tiếp yêu cầu duyệt phiếu lên API kho.
func (h *TransferHandler) ApproveTransfer(c *gin.Context) {
	var req ApproveTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token := c.GetString("user_token")
	if err := h.Gateway.ApproveTransfer(c.Request.Context(), token, req.WarehouseTransferRequestID); err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type AutoCreateTransferRequest struct {
	RequestExportID        string `json:"requestExportId" binding:"required"`
	DestinationWarehouseID string `json:"destinationWarehouseId" binding:"required"`
	Notes                  string `json:"notes"`
}

// AutoCreateTransfer tạo phiếu chuyển từ toàn bộ số còn thiếu của một yêu
// cầu xuất kho. Đường tắt bỏ qua bước chọn dòng thủ công: server tự tính
// dòng sản phẩm; client chỉ cung cấp kho đích và ghi chú.
func (h *TransferHandler) AutoCreateTransfer(c *gin.Context) {
	var req AutoCreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Kho đích vẫn phải khác kho nguồn, cùng ràng buộc với phiếu thường.
	if req.DestinationWarehouseID == c.GetString("user_warehouse_id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Destination must differ from the source warehouse", "field": "destinationWarehouseId"})
		return
	}

	token := c.GetString("user_token")
	payload := models.AutoCreateTransferPayload{
		RequestExportID:        req.RequestExportID,
		DestinationWarehouseID: req.DestinationWarehouseID,
		Notes:                  req.Notes,
	}
	if err := h.Gateway.AutoCreateFromRemaining(c.Request.Context(), token, payload); err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success"})
}
