package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/utils"
)

// TodoStore lưu trữ todo. Mọi thao tác đọc/sửa/xóa đều lọc theo
// cả id lẫn user_id ngay trong SQL, nên không thể chạm vào todo
// của người dùng khác dù handler có quên kiểm tra.
type TodoStore interface {
	// Create tạo todo mới cho ownerID, trả về ErrValidation nếu title hoặc description rỗng
	Create(ctx context.Context, ownerID, title, description string) (*models.Todo, error)

	// ListByOwner trả về todo của ownerID theo thứ tự tạo; slice rỗng nếu không có
	ListByOwner(ctx context.Context, ownerID string) ([]models.Todo, error)

	// FindByIDAndOwner trả về ErrNotFound nếu không có hàng khớp (id, ownerID)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Todo, error)

	// Update thay thế các trường khác nil, trả về số hàng bị ảnh hưởng (0 hoặc 1)
	Update(ctx context.Context, id, ownerID string, fields models.TodoUpdate) (int64, error)

	// Delete xóa hàng khớp (id, ownerID), trả về số hàng bị ảnh hưởng (0 hoặc 1)
	Delete(ctx context.Context, id, ownerID string) (int64, error)
}

// PostgresTodoStore là hiện thực TodoStore trên PostgreSQL
type PostgresTodoStore struct {
	DB *sql.DB
}

func NewPostgresTodoStore(db *sql.DB) *PostgresTodoStore {
	return &PostgresTodoStore{DB: db}
}

func (s *PostgresTodoStore) Create(ctx context.Context, ownerID, title, description string) (*models.Todo, error) {
	if title == "" {
		return nil, fmt.Errorf("title: %w", ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("description: %w", ErrValidation)
	}

	todo := &models.Todo{
		ID:          utils.NewID(),
		Title:       title,
		Description: description,
		IsDone:      false,
		UserID:      ownerID,
	}

	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO todos (id, title, description, is_done, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		todo.ID, todo.Title, todo.Description, todo.IsDone, todo.UserID,
	).Scan(&todo.CreatedAt)
	if err != nil {
		return nil, err
	}

	return todo, nil
}

func (s *PostgresTodoStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Todo, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, title, description, is_done, user_id, created_at
		 FROM todos WHERE user_id=$1 ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		var todo models.Todo
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.IsDone, &todo.UserID, &todo.CreatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}

	return todos, rows.Err()
}

func (s *PostgresTodoStore) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	var todo models.Todo
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, title, description, is_done, user_id, created_at
		 FROM todos WHERE id=$1 AND user_id=$2`,
		id, ownerID,
	).Scan(&todo.ID, &todo.Title, &todo.Description, &todo.IsDone, &todo.UserID, &todo.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return &todo, nil
}

func (s *PostgresTodoStore) Update(ctx context.Context, id, ownerID string, fields models.TodoUpdate) (int64, error) {
	// COALESCE giữ nguyên cột khi trường tương ứng là nil,
	// nhờ đó cập nhật một phần vẫn là một câu lệnh tĩnh duy nhất
	res, err := s.DB.ExecContext(ctx,
		`UPDATE todos
		 SET title=COALESCE($1, title),
		     description=COALESCE($2, description),
		     is_done=COALESCE($3, is_done)
		 WHERE id=$4 AND user_id=$5`,
		fields.Title, fields.Description, fields.IsDone, id, ownerID,
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (s *PostgresTodoStore) Delete(ctx context.Context, id, ownerID string) (int64, error) {
	res, err := s.DB.ExecContext(ctx,
		"DELETE FROM todos WHERE id=$1 AND user_id=$2",
		id, ownerID,
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
