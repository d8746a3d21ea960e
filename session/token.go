package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName là tên cookie mang token session đã ký
const CookieName = "todo_session"

// TTL là thời hạn của session: 24 giờ
const TTL = 24 * time.Hour

var errInvalidToken = errors.New("invalid session token")

// Sign bọc token session trong một JWT ký HS256.
// Database giữ token gốc; cookie chỉ mang bản đã ký nên client
// không thể tự chế token hợp lệ.
func Sign(token string, expiresAt time.Time, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sid": token,
		"exp": expiresAt.Unix(),
	}

	signed := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return signed.SignedString([]byte(secret))
}

// Parse kiểm tra chữ ký và hạn của cookie, trả về token session gốc
func Parse(cookieValue string, secret string) (string, error) {
	token, err := jwt.Parse(cookieValue, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errInvalidToken
	}

	return sid, nil
}
