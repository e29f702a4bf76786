// server/internal/api/handlers/draft_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"warehouse-transfer-api-server/internal/gateway"
	"warehouse-transfer-api-server/internal/transfer"
)

// DraftHandler phơi máy trạng thái soạn phiếu chuyển kho ra API. Mỗi
// dialog "tạo phiếu chuyển" trên dashboard tương ứng một draft trong
// store; đóng dialog là hủy draft.
type DraftHandler struct {
	Gateway *gateway.Client
	Store   *transfer.Store
}

// CreateDraft mở một phiếu rỗng cho kho nguồn của phiên. Danh mục sản
// phẩm được chụp lại tại thời điểm mở để xác thực dòng thủ công.
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	warehouseID := c.GetString("user_warehouse_id")
	token := c.GetString("user_token")

	catalog, err := h.Gateway.FetchProducts(c.Request.Context(), token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	draft := transfer.NewDraft(warehouseID, catalog)
	h.Store.Put(draft)

	c.JSON(http.StatusCreated, draft.Snapshot())
}

// GetDraft trả về ảnh chụp hiện tại của phiếu.
func (h *DraftHandler) GetDraft(c *gin.Context) {
	draft, err := h.Store.Get(c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft.Snapshot())
}

type SelectRequestPayload struct {
	RequestExportID string `json:"requestExportId" binding:"required"` // "none" = chế độ thủ công
}

// SelectRequest chọn yêu cầu xuất kho để liên kết, hoặc "none" để chuyển
// sang chế độ thủ công. Đổi chế độ bỏ dữ liệu của chế độ kia; số dòng bị
// bỏ được trả về để dashboard cảnh báo.
func (h *DraftHandler) SelectRequest(c *gin.Context) {
	draft, err := h.Store.Get(c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}

	var payload SelectRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if payload.RequestExportID == "none" {
		discarded, err := draft.SelectNone()
		if err != nil {
			respondDraftError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"draft": draft.Snapshot(), "discardedRows": discarded})
		return
	}

	// Nạp lại các dòng còn thiếu của yêu cầu từ API kho tại thời điểm chọn.
	token := c.GetString("user_token")
	lines, err := h.Gateway.FetchExportRequestLines(c.Request.Context(), token, draft.SourceWarehouseID)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	found := false
	for _, line := range lines {
		if line.RequestExportID == payload.RequestExportID && line.RemainingQuantity > 0 {
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Export request has no remaining lines", "field": "requestExportId"})
		return
	}

	discarded, err := draft.SelectExportRequest(payload.RequestExportID, lines)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft.Snapshot(), "discardedRows": discarded})
}

// ToggleProduct đảo cờ chọn của một dòng liên kết.
func (h *DraftHandler) ToggleProduct(c *gin.Context) {
	draft, err := h.Store.Get(c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product index"})
		return
	}

	if err := draft.ToggleProductSelected(index); err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft.Snapshot())
}

type SetQuantityPayload struct {
	Quantity int `json:"quantity" binding:"required"`
}

// SetQuantity đặt số lượng cho một dòng. Nếu giá trị bị kẹp về trần còn
// thiếu, phản hồi kèm cảnh báo để dashboard hiển thị, không kẹp âm thầm.
func (h *DraftHandler) SetQuantity(c *gin.Context) {
	draft, err := h.Store.Get(c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product index"})
		return
	}

	var payload SetQuantityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	warning, err := draft.SetProductQuantity(index, payload.Quantity)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	resp := gin.H{"draft": draft.Snapshot()}
	if warning != nil {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

type AddProductPayload struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Unit      string `json:"unit"`
	Notes     string `json:"notes"`
}

// AddProduct thêm một dòng thủ công vào phiếu.
func (h *DraftHandler) AddProduct(c *gin.Context) {
	draft, err := h.Store.Get(c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}

	var payload AddProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := draft.AddManualProduct(payload.ProductID, payload.Quantity, payload.Unit, payload.Notes); err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft.Snapshot())
}

// RemoveProduct xóa một dòng thủ công theo chỉ số.
func (h *DraftHandler) RemoveProduct(c *gin.Context) {
	draft, err := h.Store.Get(c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product index"})
		return
	}

	if err := draft.RemoveManualProduct(index); err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft.Snapshot())
}

type UpdateDraftPayload struct {
	DestinationWarehouseID *string `json:"destinationWarehouseId"`
	ExpectedDeliveryDate   *string `json:"expectedDeliveryDate"`
	Notes                  *string `json:"notes"`
}

// UpdateDraft cập nhật các trường ngoài danh sách sản phẩm. Các trường
// vắng mặt giữ nguyên; mỗi trường áp dụng theo thứ tự người dùng sửa.
func (h *DraftHandler) UpdateDraft(c *gin.Context) {
	draft, err := h.Store.Get(c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}

	var payload UpdateDraftPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if payload.DestinationWarehouseID != nil {
		if err := draft.SetDestination(*payload.DestinationWarehouseID); err != nil {
			respondDraftError(c, err)
			return
		}
	}
	if payload.ExpectedDeliveryDate != nil {
		date, err := parseDeliveryDate(*payload.ExpectedDeliveryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery date format", "field": "expectedDeliveryDate"})
			return
		}
		if err := draft.SetDeliveryDate(date); err != nil {
			respondDraftError(c, err)
			return
		}
	}
	if payload.Notes != nil {
		if err := draft.SetNotes(*payload.Notes); err != nil {
			respondDraftError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, draft.Snapshot())
}

// parseDeliveryDate chấp nhận cả ISO-8601 đầy đủ lẫn dạng chỉ có ngày.
func parseDeliveryDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// SubmitDraft gửi phiếu lên API kho. Payload được dựng nguyên khối và gửi
// trong một POST duy nhất; gửi thất bại thì phiếu giữ nguyên dữ liệu để
// người dùng thử lại, gửi thành công thì phiếu bị hủy.
func (h *DraftHandler) SubmitDraft(c *gin.Context) {
	draft, err := h.Store.Get(c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}

	payload, err := draft.BeginSubmit()
	if err != nil {
		respondDraftError(c, err)
		return
	}

	token := c.GetString("user_token")
	if err := h.Gateway.CreateTransfer(c.Request.Context(), token, payload); err != nil {
		draft.FinishSubmit(false)
		respondUpstreamError(c, err)
		return
	}

	draft.FinishSubmit(true)
	h.Store.Delete(draft.ID)
	c.JSON(http.StatusCreated, gin.H{"status": "success"})
}

// DiscardDraft hủy phiếu khi người dùng đóng dialog.
func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	h.Store.Delete(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "discarded"})
}
