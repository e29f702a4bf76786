// server/cmd/api/main.go
package main

import (
	"errors"
	"log"
	"os"
	"warehouse-transfer-api-server/config"
	"warehouse-transfer-api-server/internal/api/routes"
	"warehouse-transfer-api-server/internal/auth"
	"warehouse-transfer-api-server/internal/gateway"
	"warehouse-transfer-api-server/internal/hub"
	"warehouse-transfer-api-server/internal/notify"
	"warehouse-transfer-api-server/internal/socket"
	"warehouse-transfer-api-server/internal/transfer"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file, nếu không có thì dùng biến môi trường hệ thống
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	if cfg.Upstream.APIBaseURL == "" {
		log.Fatal("upstream.apiBaseURL is required")
	}
	if cfg.JWT.Secret != "" {
		auth.JwtSecret = []byte(cfg.JWT.Secret)
	}

	// 2. Khởi tạo gateway tới API kho
	gw := gateway.NewClient(cfg.Upstream.APIBaseURL, cfg.Upstream.RequestTimeout)

	// 3. Khởi tạo hub WebSocket cho dashboard và kênh thông báo từ server.
	// Kênh là tài nguyên toàn tiến trình: mở ở đây, đóng khi tắt.
	wsHub := socket.NewHub()
	channel := hub.NewChannel(cfg.Upstream.HubURL, func() (string, error) {
		// Token cho kết nối hub được đọc lại tại mỗi lần quay số, không
		// cache sớm: token dịch vụ có thể đã được xoay vòng.
		token := os.Getenv("UPSTREAM_SERVICE_TOKEN")
		if token == "" {
			token = cfg.Upstream.ServiceToken
		}
		if token == "" {
			return "", errors.New("no upstream service token configured")
		}
		return token, nil
	})
	defer channel.Close()

	// 4. Nối kênh thông báo với mặt hiển thị alert
	publisher := &socket.AlertPublisher{
		Hub:                wsHub,
		ReviewRoute:        cfg.Alert.ReviewRoute,
		AutoDismissSeconds: cfg.Alert.AutoDismissSeconds,
	}
	listener := notify.NewListener(channel, publisher)

	// 5. Khởi tạo store cho các phiếu đang soạn (chỉ trong bộ nhớ)
	draftStore := transfer.NewStore()

	// 6. Truyền tất cả các thành phần cần thiết vào router
	router := routes.SetupRouter(cfg, gw, draftStore, wsHub, listener)

	// 7. Start server
	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
