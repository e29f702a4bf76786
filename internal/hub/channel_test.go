package hub

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeConn là transport giả: phát các khung được bơm vào và báo lỗi đọc
// khi bị đóng.
type fakeConn struct {
	frames chan []byte
	done   chan struct{}
	closed atomic.Bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		frames: make(chan []byte, 16),
		done:   make(chan struct{}),
	}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-f.frames:
		return 1, data, nil
	case <-f.done:
		return 0, nil, errors.New("connection closed")
	}
}

func (f *fakeConn) SetReadDeadline(t time.Time) error                 { return nil }
func (f *fakeConn) SetPingHandler(h func(appData string) error) {}

func (f *fakeConn) Close() error {
	if f.closed.CompareAndSwap(false, true) {
		close(f.done)
	}
	return nil
}

func staticToken() (string, error) { return "token", nil }

func TestConnectIsIdempotent(t *testing.T) {
	c := NewChannel("ws://hub.local/notifications", staticToken)
	defer c.Close()

	var dials atomic.Int32
	fc := newFakeConn()
	c.dial = func(rawURL string) (conn, error) {
		dials.Add(1)
		return fc, nil
	}

	assert.NoError(t, c.Connect())
	assert.Equal(t, StateConnected, c.State())

	// Gọi lại khi đã kết nối: không quay số thêm lần nào.
	assert.NoError(t, c.Connect())
	assert.NoError(t, c.Connect())
	assert.Equal(t, int32(1), dials.Load())
}

func TestConnectFailureAllowsRetry(t *testing.T) {
	c := NewChannel("ws://hub.local/notifications", staticToken)
	defer c.Close()

	var dials atomic.Int32
	fc := newFakeConn()
	c.dial = func(rawURL string) (conn, error) {
		if dials.Add(1) <= 2 {
			return nil, errors.New("transport failure")
		}
		return fc, nil
	}

	// Hai lần thất bại liên tiếp: trạng thái quay về Disconnected sau mỗi
	// lần, không panic, và lần thứ ba vẫn được phép thử.
	assert.Error(t, c.Connect())
	assert.Equal(t, StateDisconnected, c.State())

	assert.Error(t, c.Connect())
	assert.Equal(t, StateDisconnected, c.State())

	assert.NoError(t, c.Connect())
	assert.Equal(t, StateConnected, c.State())
	assert.Equal(t, int32(3), dials.Load())
}

func TestConnectFailsWhenTokenUnavailable(t *testing.T) {
	c := NewChannel("ws://hub.local/notifications", func() (string, error) {
		return "", errors.New("no token")
	})
	defer c.Close()

	assert.Error(t, c.Connect())
	assert.Equal(t, StateDisconnected, c.State())
}

func TestHandlerSlotIsReplacedNotAccumulated(t *testing.T) {
	c := NewChannel("ws://hub.local/notifications", staticToken)
	defer c.Close()

	fc := newFakeConn()
	c.dial = func(rawURL string) (conn, error) { return fc, nil }
	assert.NoError(t, c.Connect())

	var first, second atomic.Int32
	c.On("ReceiveNotification", func(data string) { first.Add(1) })
	c.On("ReceiveNotification", func(data string) { second.Add(1) })
	assert.Equal(t, 1, c.HandlerCount())

	fc.frames <- []byte(`{"event":"ReceiveNotification","data":"new export request"}`)

	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 10*time.Millisecond)
	// Handler cũ đã bị thay thế, không được gọi.
	assert.Equal(t, int32(0), first.Load())
}

func TestOffRemovesHandler(t *testing.T) {
	c := NewChannel("ws://hub.local/notifications", staticToken)
	defer c.Close()

	fc := newFakeConn()
	c.dial = func(rawURL string) (conn, error) { return fc, nil }
	assert.NoError(t, c.Connect())

	var calls atomic.Int32
	c.On("ReceiveNotification", func(data string) { calls.Add(1) })
	c.Off("ReceiveNotification")
	assert.Equal(t, 0, c.HandlerCount())

	fc.frames <- []byte(`{"event":"ReceiveNotification","data":"dropped"}`)
	fc.frames <- []byte(`not even json`)

	// Không handler nào được gọi và khung hỏng không làm sập gì cả.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestReconnectAfterTransportDrop(t *testing.T) {
	c := NewChannel("ws://hub.local/notifications", staticToken)
	defer c.Close()

	first := newFakeConn()
	second := newFakeConn()
	var dials atomic.Int32
	c.dial = func(rawURL string) (conn, error) {
		if dials.Add(1) == 1 {
			return first, nil
		}
		return second, nil
	}

	var received atomic.Int32
	c.On("ReceiveNotification", func(data string) { received.Add(1) })
	assert.NoError(t, c.Connect())

	// Đứt transport: channel phải tự quay số lại và nhận tiếp được.
	first.Close()
	assert.Eventually(t, func() bool { return c.State() == StateConnected && dials.Load() >= 2 },
		5*time.Second, 20*time.Millisecond)

	second.frames <- []byte(`{"event":"ReceiveNotification","data":"after reconnect"}`)
	assert.Eventually(t, func() bool { return received.Load() == 1 }, time.Second, 10*time.Millisecond)
}
