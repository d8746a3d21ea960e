package models

import "time"

// Todo là cấu trúc dữ liệu của một todo, mỗi todo thuộc về đúng một người dùng
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsDone      bool      `json:"isDone"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"created_at"`
}

// TodoUpdate chứa các trường cần thay thế khi cập nhật.
// Trường nil nghĩa là giữ nguyên giá trị trong database.
type TodoUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsDone      *bool   `json:"isDone"`
}
