package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/session"
	"github.com/biosecret/go-todo/store"
)

// Khóa Locals dùng chung giữa middleware và handler
const (
	LocalsUser         = "user"
	LocalsSessionToken = "session_token"
)

// SessionMiddleware phân giải cookie session thành người dùng trên mỗi request
type SessionMiddleware struct {
	Users    store.CredentialStore
	Sessions store.SessionStore
	Secret   string
}

// Deserialize đọc cookie, tra session trong database rồi nạp người dùng
// vào Locals. Mọi trường hợp thất bại đều để request tiếp tục ở trạng thái
// ẩn danh; cookie hỏng hoặc hết hạn sẽ bị xóa luôn.
func (m *SessionMiddleware) Deserialize(c *fiber.Ctx) error {
	cookie := c.Cookies(session.CookieName)
	if cookie == "" {
		return c.Next()
	}

	token, err := session.Parse(cookie, m.Secret)
	if err != nil {
		c.ClearCookie(session.CookieName)
		return c.Next()
	}

	sess, err := m.Sessions.Find(c.Context(), token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.ClearCookie(session.CookieName)
		}
		return c.Next()
	}

	// Session trỏ tới người dùng đã bị xóa thì coi như không hợp lệ
	user, err := m.Users.FindByID(c.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.ClearCookie(session.CookieName)
		}
		return c.Next()
	}

	c.Locals(LocalsUser, user)
	c.Locals(LocalsSessionToken, sess.Token)
	return c.Next()
}

// CurrentUser trả về người dùng đã đăng nhập của request, nil nếu ẩn danh
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalsUser).(*models.User)
	return user
}

// SessionToken trả về token session của request, chuỗi rỗng nếu ẩn danh
func SessionToken(c *fiber.Ctx) string {
	token, _ := c.Locals(LocalsSessionToken).(string)
	return token
}

// RequireAuth chặn request ẩn danh với 401
func RequireAuth(c *fiber.Ctx) error {
	if CurrentUser(c) == nil {
		return c.Status(401).JSON(fiber.Map{"message": "Authentication required"})
	}
	return c.Next()
}

// RequireRole chặn request trừ khi người dùng mang đúng role
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || user.Role != role {
			return c.Status(401).JSON(fiber.Map{"message": role + " role required"})
		}
		return c.Next()
	}
}
