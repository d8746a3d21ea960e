package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/biosecret/go-todo/config"
	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/handlers"
	"github.com/biosecret/go-todo/middleware"
	"github.com/biosecret/go-todo/router"
	"github.com/biosecret/go-todo/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Session hết hạn được quét dọn mỗi giờ; việc kiểm tra hạn khi
// phân giải session mới là bước quyết định, quét dọn chỉ để gọn database
const sessionSweepInterval = time.Hour

// SetupAndRunApp khởi động ứng dụng Fiber
func SetupAndRunApp() error {
	// Load biến môi trường từ file .env
	err := config.LoadENV()
	if err != nil {
		return err
	}

	// Khởi động PostgreSQL
	err = database.StartPostgreSQL()
	if err != nil {
		return err
	}

	// Đảm bảo kết nối với cơ sở dữ liệu được đóng sau khi ứng dụng kết thúc
	defer database.ClosePostgreSQL()

	// Tạo ứng dụng Fiber
	app := fiber.New()

	// Cookie session cần credentials nên origin phải là danh sách cụ thể,
	// không dùng "*"
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(config.AllowedOrigins(), ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: true,
	}))

	// Đính kèm middleware để xử lý lỗi và ghi log
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path} ${latency}\n",
	}))

	// Khởi tạo tầng lưu trữ trên cùng một kết nối database
	db := database.GetDB()
	users := store.NewPostgresCredentialStore(db)
	todos := store.NewPostgresTodoStore(db)
	sessions := store.NewPostgresSessionStore(db)

	sessionMW := &middleware.SessionMiddleware{
		Users:    users,
		Sessions: sessions,
		Secret:   config.SessionSecret(),
	}

	h := router.Handlers{
		Auth: &handlers.AuthHandler{
			Users:    users,
			Sessions: sessions,
			Secret:   config.SessionSecret(),
			Secure:   config.IsProduction(),
		},
		Todo: &handlers.TodoHandler{Todos: todos},
	}

	// Thiết lập route cho ứng dụng
	router.SetupRoutes(app, sessionMW, h)

	// Đính kèm Swagger (nếu cần)
	config.AddSwaggerRoutes(app)

	// Dọn session hết hạn định kỳ
	go sweepExpiredSessions(sessions)

	// Lắng nghe trên cổng chỉ định
	return app.Listen(":" + config.Port())
}

// sweepExpiredSessions xóa các session đã hết hạn theo chu kỳ cố định
func sweepExpiredSessions(sessions store.SessionStore) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		deleted, err := sessions.DeleteExpired(context.Background())
		if err != nil {
			log.Printf("session sweep failed: %v", err)
			continue
		}
		if deleted > 0 {
			log.Printf("session sweep removed %d expired sessions", deleted)
		}
	}
}
