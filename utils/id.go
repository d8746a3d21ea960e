package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID tạo một UUID v4 dùng làm khóa chính cho users và todos
func NewID() string {
	return uuid.NewString()
}

// GenerateSessionToken tạo một token ngẫu nhiên 16 byte (32 ký tự hex)
// dùng làm khóa của session trong database
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, 16) // 16 byte -> 32 ký tự hex
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
