// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Alert là một thông báo hành động được đẩy xuống dashboard: nội dung,
// route của nút "xem ngay", và thời gian tự ẩn nếu người dùng không bấm.
type Alert struct {
	Message            string `json:"message"`
	ActionRoute        string `json:"actionRoute"`
	AutoDismissSeconds int    `json:"autoDismissSeconds"`
}

// Hub quản lý tất cả các client WebSocket của dashboard.
type Hub struct {
	// clients là một map để lưu trữ các kết nối, key là ID phiên kết nối.
	clients map[string]*websocket.Conn
	// mu là một Mutex để đảm bảo an toàn khi truy cập map clients từ nhiều goroutine.
	mu sync.RWMutex
}

// NewHub tạo một Hub mới.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
	}
}

// Register thêm một client mới vào Hub.
func (h *Hub) Register(clientID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[clientID] = conn
	log.Printf("WebSocket client registered: %s", clientID)
}

// Unregister xóa một client khỏi Hub.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[clientID]; ok {
		delete(h.clients, clientID)
		log.Printf("WebSocket client unregistered: %s", clientID)
	}
}

// ClientCount trả về số dashboard đang kết nối.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish gửi một alert tới tất cả các dashboard đang kết nối. Không có
// ai kết nối thì alert rơi âm thầm: thông báo là fire-and-forget, không
// có hàng đợi hay phát lại.
func (h *Hub) Publish(alert Alert) {
	data, err := json.Marshal(alert)
	if err != nil {
		log.Printf("Failed to encode alert: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for clientID, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// Client có thể vừa rớt; vòng đọc của nó sẽ tự dọn dẹp.
			log.Printf("Failed to push alert to %s: %v", clientID, err)
		}
	}
}
