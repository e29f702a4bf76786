// server/internal/gateway/client.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Phân loại lỗi khi gọi API kho. Lỗi mạng và lỗi server được phân biệt
// để handler chọn đúng mã trạng thái trả về cho dashboard.
const (
	KindNetwork = "network"
	KindServer  = "server"
	KindDecode  = "decode"
)

// RequestError là lỗi có phân loại của một lần gọi API kho.
type RequestError struct {
	Kind   string
	Status int    // chỉ có nghĩa khi Kind == KindServer
	Body   string // phần đầu body trả về, phục vụ log/debug
	Err    error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindServer:
		return fmt.Sprintf("upstream rejected request: status %d: %s", e.Status, e.Body)
	case KindDecode:
		return fmt.Sprintf("failed to decode upstream response: %v", e.Err)
	default:
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsNetwork báo lỗi là do mạng/timeout (có thể thử lại thủ công).
func IsNetwork(err error) bool {
	re, ok := err.(*RequestError)
	return ok && re.Kind == KindNetwork
}

// IsServerRejection báo API kho trả về mã non-2xx.
func IsServerRejection(err error) bool {
	re, ok := err.(*RequestError)
	return ok && re.Kind == KindServer
}

// Client là HTTP client có xác thực tới API kho. Token không được cache
// trong client; mỗi lần gọi nhận token của phiên đang thao tác.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient tạo client với timeout chặn mọi request treo quá lâu.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// doJSON thực hiện một request JSON, gắn bearer token và decode kết quả
// vào out (bỏ qua nếu out là nil). Không tự động retry.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Kind: KindDecode, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &RequestError{Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Giữ lại một phần body để chẩn đoán, không trả nguyên văn cho client.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &RequestError{Kind: KindServer, Status: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Kind: KindDecode, Err: err}
	}
	return nil
}
