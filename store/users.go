package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/utils"
)

// NewUser là dữ liệu đầu vào khi tạo người dùng mới
type NewUser struct {
	Email        string
	Username     string
	PasswordHash string
	Provider     string
	DisplayName  string
}

// CredentialStore lưu trữ danh tính người dùng.
// Không có update/delete: tài khoản không bị sửa hay xóa sau khi tạo.
type CredentialStore interface {
	// Create tạo người dùng mới, trả về ErrConflict nếu email hoặc username đã tồn tại
	Create(ctx context.Context, nu NewUser) (*models.User, error)

	// FindByEmailAndProvider tìm người dùng theo (email, provider), trả về ErrNotFound nếu không có
	FindByEmailAndProvider(ctx context.Context, email, provider string) (*models.User, error)

	// FindByID tìm người dùng theo id, trả về ErrNotFound nếu không có
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// PostgresCredentialStore là hiện thực CredentialStore trên PostgreSQL
type PostgresCredentialStore struct {
	DB *sql.DB
}

func NewPostgresCredentialStore(db *sql.DB) *PostgresCredentialStore {
	return &PostgresCredentialStore{DB: db}
}

const userColumns = "id, email, username, COALESCE(password_hash, ''), COALESCE(provider, ''), COALESCE(display_name, ''), role, created_at"

func (s *PostgresCredentialStore) Create(ctx context.Context, nu NewUser) (*models.User, error) {
	user := &models.User{
		ID:           utils.NewID(),
		Email:        nu.Email,
		Username:     nu.Username,
		PasswordHash: nu.PasswordHash,
		Provider:     nu.Provider,
		DisplayName:  nu.DisplayName,
		Role:         "user",
	}

	// Dựa vào ràng buộc unique của database thay vì SELECT trước,
	// tránh race giữa kiểm tra và insert
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO users (id, email, username, password_hash, provider, display_name)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		user.ID, user.Email, user.Username, user.PasswordHash, user.Provider, user.DisplayName,
	).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s: %w", nu.Email, ErrConflict)
		}
		return nil, err
	}

	return user, nil
}

func (s *PostgresCredentialStore) FindByEmailAndProvider(ctx context.Context, email, provider string) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=$1 AND provider=$2",
		email, provider,
	)
	return scanUser(row)
}

func (s *PostgresCredentialStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=$1",
		id,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash,
		&user.Provider, &user.DisplayName, &user.Role, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &user, nil
}
