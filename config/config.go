// server/config/config.go
package config

import (
	"time"

	"github.com/spf13/viper"
)

// --- Các struct con, phản ánh cấu trúc của YAML ---

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// UpstreamConfig chứa thông tin kết nối tới API kho và hub thông báo.
type UpstreamConfig struct {
	APIBaseURL     string        `mapstructure:"apiBaseURL"`
	HubURL         string        `mapstructure:"hubURL"`
	ServiceToken   string        `mapstructure:"serviceToken"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

// AlertConfig điều khiển hành vi của thông báo đẩy tới dashboard.
type AlertConfig struct {
	AutoDismissSeconds int    `mapstructure:"autoDismissSeconds"`
	ReviewRoute        string `mapstructure:"reviewRoute"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

// --- Struct Config chính, bao gồm tất cả các struct con ---

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Alert    AlertConfig    `mapstructure:"alert"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// LoadConfig đọc cấu hình từ file và ghi đè bằng các biến môi trường.
func LoadConfig(path string) (config Config, err error) {
	// Thiết lập đường dẫn và tên file config
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Bật tính năng tự động đọc biến môi trường
	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("upstream.apiBaseURL", "UPSTREAM_API_BASE_URL")
	viper.BindEnv("upstream.hubURL", "UPSTREAM_HUB_URL")
	viper.BindEnv("upstream.serviceToken", "UPSTREAM_SERVICE_TOKEN")
	viper.BindEnv("upstream.requestTimeout", "UPSTREAM_REQUEST_TIMEOUT")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	viper.BindEnv("alert.autoDismissSeconds", "ALERT_AUTO_DISMISS_SECONDS")

	// Giá trị mặc định cho các key ít khi cần chỉnh
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("upstream.requestTimeout", "10s")
	viper.SetDefault("alert.autoDismissSeconds", 6)
	viper.SetDefault("alert.reviewRoute", "/export-requests")

	// Đọc file config.yaml
	// Nếu file không tồn tại, Viper sẽ chỉ sử dụng các biến môi trường.
	err = viper.ReadInConfig()
	if err != nil {
		// Chỉ trả về lỗi nếu đó không phải là lỗi "không tìm thấy file"
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	// Unmarshal toàn bộ cấu hình đã được kết hợp (từ file và env) vào struct Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return
}
