package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/handlers"
	"github.com/biosecret/go-todo/middleware"
)

// Handlers gom các handler mà router cần nối vào route
type Handlers struct {
	Auth *handlers.AuthHandler
	Todo *handlers.TodoHandler
}

func SetupRoutes(app *fiber.App, sessions *middleware.SessionMiddleware, h Handlers) {
	// Mọi request đều đi qua bước phân giải session trước
	app.Use(sessions.Deserialize)

	app.Get("/health", handlers.HandleHealthCheck)

	auth := app.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/logout", h.Auth.Logout)
	auth.Get("/me", h.Auth.Me)

	app.Get("/", middleware.RequireAuth, h.Todo.List)
	app.Post("/todo", middleware.RequireAuth, h.Todo.Create)
	app.Get("/todo/:id", middleware.RequireAuth, h.Todo.GetOne)
	app.Put("/todo", middleware.RequireAuth, h.Todo.Update)
	app.Delete("/todo/:id", middleware.RequireAuth, h.Todo.Delete)
}
