package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadENV nạp biến môi trường từ file .env nếu có.
// Khi chạy trong container, biến môi trường thường được truyền sẵn
// nên thiếu file .env không phải là lỗi.
func LoadENV() error {
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			return err
		}
	}

	if SessionSecret() == "" {
		return errors.New("you must set your 'SESSION_SECRET' environmental variable")
	}

	return nil
}

// SessionSecret trả về khóa bí mật để ký cookie session
func SessionSecret() string {
	return os.Getenv("SESSION_SECRET")
}

// Port trả về cổng HTTP, mặc định 3000
func Port() string {
	return getEnv("PORT", "3000")
}

// AllowedOrigins trả về danh sách origin được phép gọi API kèm credentials
func AllowedOrigins() []string {
	raw := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

// IsProduction kiểm tra có đang chạy ở môi trường production không
// (bật cờ Secure trên cookie)
func IsProduction() bool {
	return os.Getenv("ENVIRONMENT") == "production"
}

// getEnv lấy biến môi trường, trả về giá trị mặc định nếu không tồn tại
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
