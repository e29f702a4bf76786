// server/internal/socket/publisher.go
package socket

// AlertPublisher gắn nội dung tin nhắn từ hub thông báo với route của màn
// hình duyệt yêu cầu xuất kho và thời gian tự ẩn, rồi đẩy qua Hub.
type AlertPublisher struct {
	Hub                *Hub
	ReviewRoute        string
	AutoDismissSeconds int
}

// PublishAlert phát đúng một alert cho một tin nhắn nhận được.
func (p *AlertPublisher) PublishAlert(message string) {
	p.Hub.Publish(Alert{
		Message:            message,
		ActionRoute:        p.ReviewRoute,
		AutoDismissSeconds: p.AutoDismissSeconds,
	})
}
