// server/internal/hub/channel.go
package hub

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Thời gian chờ tối đa giữa hai tin nhắn từ hub trước khi coi là đứt.
const pongWait = 60 * time.Second

// Backoff khi kết nối lại: bắt đầu 1s, nhân đôi, trần 30s.
const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// Trạng thái kết nối của channel.
type ConnState string

const (
	StateDisconnected ConnState = "Disconnected"
	StateConnecting   ConnState = "Connecting"
	StateConnected    ConnState = "Connected"
	StateReconnecting ConnState = "Reconnecting"
)

// Handler nhận payload chuỗi của một sự kiện có tên từ hub.
type Handler func(data string)

// TokenFunc cấp bearer token tại thời điểm quay số, không cache sớm hơn:
// token của phiên có thể đã được làm mới giữa hai lần kết nối.
type TokenFunc func() (string, error)

// frame là khung JSON mà hub đẩy xuống: tên sự kiện + payload chuỗi.
type frame struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// conn là phần giao diện của *websocket.Conn mà channel cần; tách ra để
// test thay được transport.
type conn interface {
	ReadMessage() (int, []byte, error)
	SetReadDeadline(t time.Time) error
	SetPingHandler(h func(appData string) error)
	Close() error
}

// DialFunc quay số tới hub. Mặc định dùng gorilla/websocket.
type DialFunc func(rawURL string) (conn, error)

// Channel giữ đúng một kết nối sống tới hub thông báo của server. Tài
// nguyên toàn tiến trình: tạo một lần lúc khởi động (cmd/api/main.go),
// đóng lúc tắt. Tự kết nối lại khi transport rớt.
type Channel struct {
	url     string
	tokenFn TokenFunc
	dial    DialFunc

	mu       sync.Mutex
	state    ConnState
	active   conn
	handlers map[string]Handler
	done     chan struct{}
	closed   bool
}

// NewChannel tạo channel ở trạng thái Disconnected; chưa quay số.
func NewChannel(hubURL string, tokenFn TokenFunc) *Channel {
	c := &Channel{
		url:      hubURL,
		tokenFn:  tokenFn,
		state:    StateDisconnected,
		handlers: make(map[string]Handler),
		done:     make(chan struct{}),
	}
	c.dial = c.defaultDial
	return c
}

func (c *Channel) defaultDial(rawURL string) (conn, error) {
	wsConn, _, err := websocket.DefaultDialer.Dial(rawURL, nil)
	if err != nil {
		return nil, err
	}
	return wsConn, nil
}

// Connect mở kết nối tới hub. Idempotent: đang kết nối hoặc đã kết nối
// thì không làm gì. Thất bại thì trạng thái quay về Disconnected để lần
// gọi sau thử lại được; lỗi chỉ trả về cho caller, không bao giờ panic.
func (c *Channel) Connect() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.New("channel is closed")
	}
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.state = StateConnecting
	c.mu.Unlock()

	wsConn, err := c.dialOnce()
	if err != nil {
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		log.Printf("[Hub] connect failed: %v", err)
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		wsConn.Close()
		return errors.New("channel is closed")
	}
	c.active = wsConn
	c.state = StateConnected
	c.mu.Unlock()

	go c.readLoop(wsConn)
	return nil
}

// dialOnce lấy token mới rồi quay số một lần.
func (c *Channel) dialOnce() (conn, error) {
	token, err := c.tokenFn()
	if err != nil {
		return nil, err
	}

	wsConn, err := c.dial(c.url + "?token=" + token)
	if err != nil {
		return nil, err
	}

	// Heartbeat: hub gửi PING định kỳ, mỗi lần nhận thì gia hạn deadline.
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPingHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return wsConn, nil
}

// On đăng ký handler cho một sự kiện có tên. Mỗi tên sự kiện chỉ có đúng
// một ô handler: đăng ký lại sẽ thay thế handler cũ, không cộng dồn, nên
// mount lại listener không tạo ra thông báo trùng.
func (c *Channel) On(event string, handler func(data string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = handler
}

// Off gỡ handler của một sự kiện.
func (c *Channel) Off(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, event)
}

// State trả về trạng thái kết nối hiện tại.
func (c *Channel) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HandlerCount trả về số handler đang đăng ký (phục vụ giám sát/test).
func (c *Channel) HandlerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handlers)
}

// Close dừng channel vĩnh viễn: đóng kết nối và dừng vòng kết nối lại.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	if c.active != nil {
		c.active.Close()
		c.active = nil
	}
	c.state = StateDisconnected
}

// readLoop đọc các khung từ hub và phát cho handler tương ứng. Khi
// transport lỗi, chuyển sang Reconnecting và quay số lại với backoff.
func (c *Channel) readLoop(wsConn conn) {
	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			wsConn.Close()
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				return
			}
			c.active = nil
			c.state = StateReconnecting
			c.mu.Unlock()
			log.Printf("[Hub] connection lost: %v", err)
			c.reconnectLoop()
			return
		}
		c.dispatch(data)
	}
}

// dispatch giải mã một khung và gọi handler đã đăng ký cho sự kiện đó.
// Khung không giải mã được chỉ bị log rồi bỏ qua.
func (c *Channel) dispatch(data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		log.Printf("[Hub] dropping malformed frame: %v", err)
		return
	}

	c.mu.Lock()
	handler := c.handlers[f.Event]
	c.mu.Unlock()

	if handler != nil {
		handler(f.Data)
	}
}

// reconnectLoop quay số lại vô hạn với backoff lũy thừa cho tới khi thành
// công hoặc channel bị đóng. Không busy-loop.
func (c *Channel) reconnectLoop() {
	delay := reconnectBaseDelay
	for {
		select {
		case <-c.done:
			return
		case <-time.After(delay):
		}

		wsConn, err := c.dialOnce()
		if err != nil {
			log.Printf("[Hub] reconnect failed, retrying in %s: %v", delay, err)
			delay *= 2
			if delay > reconnectMaxDelay {
				delay = reconnectMaxDelay
			}
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			wsConn.Close()
			return
		}
		c.active = wsConn
		c.state = StateConnected
		c.mu.Unlock()

		log.Printf("[Hub] reconnected")
		go c.readLoop(wsConn)
		return
	}
}
