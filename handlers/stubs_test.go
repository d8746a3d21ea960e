package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/middleware"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/store"
	"github.com/biosecret/go-todo/utils"
)

const testSecret = "test-secret"

type stubCredentialStore struct {
	users     map[string]*models.User
	createErr error
}

func newStubCredentialStore() *stubCredentialStore {
	return &stubCredentialStore{users: map[string]*models.User{}}
}

func (s *stubCredentialStore) Create(ctx context.Context, nu store.NewUser) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, u := range s.users {
		if u.Email == nu.Email || u.Username == nu.Username {
			return nil, fmt.Errorf("user %s: %w", nu.Email, store.ErrConflict)
		}
	}
	user := &models.User{
		ID:           utils.NewID(),
		Email:        nu.Email,
		Username:     nu.Username,
		PasswordHash: nu.PasswordHash,
		Provider:     nu.Provider,
		DisplayName:  nu.DisplayName,
		Role:         "user",
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *stubCredentialStore) FindByEmailAndProvider(ctx context.Context, email, provider string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email && u.Provider == provider {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *stubCredentialStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

type stubSessionStore struct {
	sessions  map[string]*models.Session
	createErr error
	deleteErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: map[string]*models.Session{}}
}

func (s *stubSessionStore) Create(ctx context.Context, userID string, ttl time.Duration) (*models.Session, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	token, err := utils.GenerateSessionToken()
	if err != nil {
		return nil, err
	}
	sess := &models.Session{Token: token, UserID: userID, ExpiresAt: time.Now().Add(ttl)}
	s.sessions[token] = sess
	return sess, nil
}

func (s *stubSessionStore) Find(ctx context.Context, token string) (*models.Session, error) {
	sess, ok := s.sessions[token]
	if !ok || sess.Expired() {
		return nil, store.ErrNotFound
	}
	return sess, nil
}

func (s *stubSessionStore) Delete(ctx context.Context, token string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.sessions, token)
	return nil
}

func (s *stubSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64
	for token, sess := range s.sessions {
		if sess.Expired() {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}

type stubTodoStore struct {
	todos []models.Todo
}

func (s *stubTodoStore) Create(ctx context.Context, ownerID, title, description string) (*models.Todo, error) {
	if title == "" {
		return nil, fmt.Errorf("title: %w", store.ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("description: %w", store.ErrValidation)
	}
	todo := models.Todo{
		ID:          utils.NewID(),
		Title:       title,
		Description: description,
		UserID:      ownerID,
		CreatedAt:   time.Now(),
	}
	s.todos = append(s.todos, todo)
	return &todo, nil
}

func (s *stubTodoStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Todo, error) {
	out := []models.Todo{}
	for _, t := range s.todos {
		if t.UserID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTodoStore) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	for i := range s.todos {
		if s.todos[i].ID == id && s.todos[i].UserID == ownerID {
			todo := s.todos[i]
			return &todo, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *stubTodoStore) Update(ctx context.Context, id, ownerID string, fields models.TodoUpdate) (int64, error) {
	for i := range s.todos {
		if s.todos[i].ID == id && s.todos[i].UserID == ownerID {
			if fields.Title != nil {
				s.todos[i].Title = *fields.Title
			}
			if fields.Description != nil {
				s.todos[i].Description = *fields.Description
			}
			if fields.IsDone != nil {
				s.todos[i].IsDone = *fields.IsDone
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (s *stubTodoStore) Delete(ctx context.Context, id, ownerID string) (int64, error) {
	for i := range s.todos {
		if s.todos[i].ID == id && s.todos[i].UserID == ownerID {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type testEnv struct {
	app      *fiber.App
	users    *stubCredentialStore
	sessions *stubSessionStore
	todos    *stubTodoStore
}

// newTestEnv dựng app với đầy đủ route và middleware session trên các stub store
func newTestEnv() *testEnv {
	env := &testEnv{
		users:    newStubCredentialStore(),
		sessions: newStubSessionStore(),
		todos:    &stubTodoStore{},
	}

	app := fiber.New()
	mw := &middleware.SessionMiddleware{
		Users:    env.users,
		Sessions: env.sessions,
		Secret:   testSecret,
	}
	app.Use(mw.Deserialize)

	auth := &AuthHandler{
		Users:    env.users,
		Sessions: env.sessions,
		Secret:   testSecret,
	}
	todo := &TodoHandler{Todos: env.todos}

	app.Post("/auth/register", auth.Register)
	app.Post("/auth/login", auth.Login)
	app.Post("/auth/logout", auth.Logout)
	app.Get("/auth/me", auth.Me)
	app.Get("/", middleware.RequireAuth, todo.List)
	app.Post("/todo", middleware.RequireAuth, todo.Create)
	app.Get("/todo/:id", middleware.RequireAuth, todo.GetOne)
	app.Put("/todo", middleware.RequireAuth, todo.Update)
	app.Delete("/todo/:id", middleware.RequireAuth, todo.Delete)

	env.app = app
	return env
}
