// server/internal/api/handlers/common.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"warehouse-transfer-api-server/internal/gateway"
	"warehouse-transfer-api-server/internal/transfer"
)

// respondUpstreamError dịch lỗi từ gateway thành phản hồi cho dashboard.
// Lỗi mạng là 502 (người dùng tự thử lại, không auto-retry); server từ
// chối thì chuyển tiếp nguyên mã trạng thái của API kho.
func respondUpstreamError(c *gin.Context, err error) {
	var re *gateway.RequestError
	if errors.As(err, &re) && re.Kind == gateway.KindServer {
		c.JSON(re.Status, gin.H{"error": "The warehouse service rejected the request"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "Cannot reach the warehouse service, please try again"})
}

// respondDraftError dịch lỗi của builder thành mã trạng thái phù hợp.
// Lỗi nhập liệu trả về 400 kèm tên trường để dashboard gắn vào đúng ô.
func respondDraftError(c *gin.Context, err error) {
	var ve *transfer.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
	case errors.Is(err, transfer.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
	case errors.Is(err, transfer.ErrIndexOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product index out of range"})
	case errors.Is(err, transfer.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A submission is already in progress for this draft"})
	case errors.Is(err, transfer.ErrWrongMode), errors.Is(err, transfer.ErrDraftLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
