package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Các lỗi chuẩn của tầng lưu trữ. Handler dựa vào errors.Is
// để ánh xạ sang mã HTTP tương ứng.
var (
	// ErrNotFound: không có hàng nào khớp (id, user_id)
	ErrNotFound = errors.New("record not found")
	// ErrConflict: vi phạm ràng buộc unique (email hoặc username đã tồn tại)
	ErrConflict = errors.New("record already exists")
	// ErrValidation: thiếu trường bắt buộc
	ErrValidation = errors.New("missing required field")
)

// uniqueViolation là mã lỗi PostgreSQL khi vi phạm ràng buộc unique
const uniqueViolation = "23505"

// isUniqueViolation kiểm tra lỗi từ driver có phải do trùng khóa unique không
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
