// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"warehouse-transfer-api-server/internal/auth"
	"warehouse-transfer-api-server/internal/notify"
	"warehouse-transfer-api-server/internal/socket"
)

// Thời gian chờ tối đa cho một tin nhắn từ client.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub      *socket.Hub
	Listener *notify.Listener
}

// ServeWs xử lý các yêu cầu kết nối WebSocket từ dashboard. Khi màn hình
// đầu tiên kết nối, listener thông báo được kích hoạt; khi màn hình cuối
// cùng rời đi, chỉ gỡ subscription, kết nối dùng chung tới hub giữ nguyên.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
		return
	}

	claims, err := auth.ParseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	clientID := fmt.Sprintf("%s-%s", claims.WarehouseID, uuid.New().String()[:8])
	h.Hub.Register(clientID, conn)

	// Kích hoạt listener thông báo; gọi lặp lại là no-op nên mỗi màn hình
	// mount thêm không tạo subscription trùng.
	if err := h.Listener.Activate(); err != nil {
		// Dashboard vẫn dùng được, chỉ không có thông báo thời gian thực.
		log.Printf("Live notifications unavailable: %v", err)
	}

	defer func() {
		h.Hub.Unregister(clientID)
		conn.Close()
		// Màn hình cuối cùng rời đi: gỡ subscription, giữ kết nối hub.
		if h.Hub.ClientCount() == 0 {
			h.Listener.Deactivate()
		}
	}()

	// Heartbeat: client gửi PING định kỳ, mỗi lần nhận thì gia hạn deadline.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Vòng lặp đọc: kết nối này chỉ đẩy xuống, tin nhắn lên bị bỏ qua.
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close error: %v", err)
			}
			break
		}
	}
}
