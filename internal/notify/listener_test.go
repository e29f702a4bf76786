package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeChannel đếm số lần gọi và giữ đúng một handler cho mỗi sự kiện,
// giống hợp đồng ô-handler của hub.Channel.
type fakeChannel struct {
	connectErr   error
	connectCalls int
	onCalls      int
	offCalls     int
	handlers     map[string]func(data string)
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{handlers: make(map[string]func(data string))}
}

func (f *fakeChannel) Connect() error {
	f.connectCalls++
	return f.connectErr
}

func (f *fakeChannel) On(event string, handler func(data string)) {
	f.onCalls++
	f.handlers[event] = handler
}

func (f *fakeChannel) Off(event string) {
	f.offCalls++
	delete(f.handlers, event)
}

type recordingSink struct {
	messages []string
}

func (s *recordingSink) PublishAlert(message string) {
	s.messages = append(s.messages, message)
}

func TestActivateSubscribesExactlyOnce(t *testing.T) {
	channel := newFakeChannel()
	sink := &recordingSink{}
	listener := NewListener(channel, sink)

	assert.NoError(t, listener.Activate())
	// Kích hoạt lần hai trong cùng tiến trình: no-op, không connect lại,
	// không đăng ký thêm handler.
	assert.NoError(t, listener.Activate())

	assert.True(t, listener.Active())
	assert.Equal(t, 1, channel.connectCalls)
	assert.Equal(t, 1, channel.onCalls)
	assert.Len(t, channel.handlers, 1)
	assert.NotNil(t, channel.handlers[EventNewExportRequest])
}

func TestEachMessageRaisesExactlyOneAlert(t *testing.T) {
	channel := newFakeChannel()
	sink := &recordingSink{}
	listener := NewListener(channel, sink)

	assert.NoError(t, listener.Activate())

	handler := channel.handlers[EventNewExportRequest]
	handler("Kho A có yêu cầu xuất hàng mới")
	handler("Kho B có yêu cầu xuất hàng mới")

	assert.Equal(t, []string{
		"Kho A có yêu cầu xuất hàng mới",
		"Kho B có yêu cầu xuất hàng mới",
	}, sink.messages)
}

func TestActivateFailureClearsFlagForRetry(t *testing.T) {
	channel := newFakeChannel()
	channel.connectErr = errors.New("hub unreachable")
	sink := &recordingSink{}
	listener := NewListener(channel, sink)

	// Hai lần thất bại liên tiếp: cờ active trở về false sau mỗi lần để
	// lần thử sau còn đi tiếp được, và không có subscription nào tồn tại.
	assert.Error(t, listener.Activate())
	assert.False(t, listener.Active())
	assert.Error(t, listener.Activate())
	assert.False(t, listener.Active())
	assert.Empty(t, channel.handlers)
	assert.Equal(t, 2, channel.connectCalls)

	// Lần thứ ba thành công.
	channel.connectErr = nil
	assert.NoError(t, listener.Activate())
	assert.True(t, listener.Active())
	assert.Len(t, channel.handlers, 1)
}

func TestDeactivateUnsubscribesButKeepsChannel(t *testing.T) {
	channel := newFakeChannel()
	sink := &recordingSink{}
	listener := NewListener(channel, sink)

	assert.NoError(t, listener.Activate())
	listener.Deactivate()

	assert.False(t, listener.Active())
	assert.Empty(t, channel.handlers)

	// Deactivate lặp lại là no-op, không gỡ thêm lần nào nữa.
	offCalls := channel.offCalls
	listener.Deactivate()
	assert.Equal(t, offCalls, channel.offCalls)
}
