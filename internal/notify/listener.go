// server/internal/notify/listener.go
package notify

import (
	"log"
	"sync"
)

// EventNewExportRequest là sự kiện duy nhất listener này quan tâm.
const EventNewExportRequest = "ReceiveNotification"

// Channel là phần của hub.Channel mà listener cần.
type Channel interface {
	Connect() error
	On(event string, handler func(data string))
	Off(event string)
}

// AlertSink nhận alert đã định hình để đẩy ra mặt hiển thị (socket.Hub).
type AlertSink interface {
	PublishAlert(message string)
}

// Listener là singleton nối NotificationChannel với mặt hiển thị alert.
// Cho dù màn hình dashboard được mount bao nhiêu lần, chỉ có đúng một
// subscription tới sự kiện "ReceiveNotification" tồn tại trong tiến trình.
type Listener struct {
	channel Channel
	sink    AlertSink

	mu     sync.Mutex
	active bool
}

// NewListener tạo listener chưa kích hoạt. Tạo một lần trong main và
// truyền xuống; cờ active thuộc về instance này, không phải biến rời.
func NewListener(channel Channel, sink AlertSink) *Listener {
	return &Listener{channel: channel, sink: sink}
}

// Activate kết nối channel (nếu chưa) và đăng ký nhận sự kiện. Gọi lần
// hai khi đang hoạt động là no-op. Kết nối thất bại thì cờ active được
// trả về false để lần Activate sau còn thử lại được.
func (l *Listener) Activate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active {
		return nil
	}
	l.active = true

	if err := l.channel.Connect(); err != nil {
		// Dashboard vẫn dùng được ở chế độ suy giảm (tự bấm tải lại);
		// chỉ mất thông báo thời gian thực.
		l.active = false
		log.Printf("[Notify] hub connect failed, live notifications disabled: %v", err)
		return err
	}

	// Off trước On: bảo đảm một ô handler duy nhất cho sự kiện này.
	l.channel.Off(EventNewExportRequest)
	l.channel.On(EventNewExportRequest, l.handleMessage)
	return nil
}

// Deactivate gỡ subscription. Không đóng channel dùng chung: tính năng
// khác có thể còn cần nó.
func (l *Listener) Deactivate() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.active {
		return
	}
	l.channel.Off(EventNewExportRequest)
	l.active = false
}

// Active cho biết listener có đang giữ subscription không.
func (l *Listener) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// handleMessage biến một tin nhắn từ hub thành đúng một alert.
func (l *Listener) handleMessage(data string) {
	l.sink.PublishAlert(data)
}
