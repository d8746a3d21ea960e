package models

import "time"

// Session liên kết một token phía server với một người dùng đã đăng nhập.
// Token được lưu trong database, cookie chỉ mang token đã ký.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired kiểm tra session đã hết hạn hay chưa
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
