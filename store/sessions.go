package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/utils"
)

// SessionStore lưu trữ session phía server.
// Cookie chỉ mang token; toàn bộ trạng thái nằm trong bảng sessions.
type SessionStore interface {
	// Create tạo session mới cho userID với thời hạn ttl
	Create(ctx context.Context, userID string, ttl time.Duration) (*models.Session, error)

	// Find trả về session còn hạn, ErrNotFound nếu token không tồn tại hoặc đã hết hạn
	Find(ctx context.Context, token string) (*models.Session, error)

	// Delete xóa session theo token; token không tồn tại không phải là lỗi
	Delete(ctx context.Context, token string) error

	// DeleteExpired dọn các session đã hết hạn, trả về số hàng bị xóa
	DeleteExpired(ctx context.Context) (int64, error)
}

// PostgresSessionStore là hiện thực SessionStore trên PostgreSQL
type PostgresSessionStore struct {
	DB *sql.DB
}

func NewPostgresSessionStore(db *sql.DB) *PostgresSessionStore {
	return &PostgresSessionStore{DB: db}
}

func (s *PostgresSessionStore) Create(ctx context.Context, userID string, ttl time.Duration) (*models.Session, error) {
	token, err := utils.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}

	_, err = s.DB.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)",
		session.Token, session.UserID, session.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (s *PostgresSessionStore) Find(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := s.DB.QueryRowContext(ctx,
		"SELECT token, user_id, expires_at FROM sessions WHERE token=$1 AND expires_at > NOW()",
		token,
	).Scan(&session.Token, &session.UserID, &session.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return &session, nil
}

func (s *PostgresSessionStore) Delete(ctx context.Context, token string) error {
	_, err := s.DB.ExecContext(ctx, "DELETE FROM sessions WHERE token=$1", token)
	return err
}

func (s *PostgresSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= NOW()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
