// server/internal/api/handlers/session_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"warehouse-transfer-api-server/config"
	"warehouse-transfer-api-server/internal/auth"
)

type SessionHandler struct {
	Cfg config.Config
}

// Danh tính đã được cổng xác thực phía trước kiểm tra; service này chỉ
// phát hành token phiên làm việc gắn với một kho nguồn cố định.
type CreateSessionRequest struct {
	Email       string `json:"email" binding:"required"`
	FullName    string `json:"fullName" binding:"required"`
	Role        string `json:"role" binding:"required"`        // "admin" hoặc "staff"
	WarehouseID string `json:"warehouseId" binding:"required"` // kho nguồn của phiên
}

// CreateSession phát hành JWT cho một phiên dashboard.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expiration, err := time.ParseDuration(h.Cfg.JWT.Expiration)
	if err != nil || expiration <= 0 {
		expiration = 24 * time.Hour
	}

	token, err := auth.GenerateJWT(req.Email, req.FullName, req.Role, req.WarehouseID, expiration)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate session token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":      "success",
		"token":       token,
		"warehouseId": req.WarehouseID,
		"role":        req.Role,
	})
}
