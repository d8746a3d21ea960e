package handlers

import (
	"errors"
	"net/mail"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/biosecret/go-todo/middleware"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/session"
	"github.com/biosecret/go-todo/store"
)

// Chi phí bcrypt 12: đủ chậm để chống brute force offline
const bcryptCost = 12

// Hash giả để so sánh khi email không tồn tại, giữ thời gian phản hồi
// của login không phụ thuộc vào việc email có trong database hay không
var dummyHash = []byte("$2a$12$C6UzMDM.H6dfI/f/IKcEeO7ZBp4SKKqwpWsTyAY0uCz07Pf638AWe")

// AuthHandler xử lý đăng ký, đăng nhập, đăng xuất và tra cứu phiên hiện tại
type AuthHandler struct {
	Users    store.CredentialStore
	Sessions store.SessionStore
	Secret   string
	Secure   bool
}

type registerRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register đăng ký người dùng mới và đăng nhập luôn cho họ
//
//	@Summary	Register a new user
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	map[string]interface{}
//	@Failure	400	{object}	map[string]interface{}
//	@Router		/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Status(400).JSON(fiber.Map{"message": "you are already logged in"})
	}

	req := new(registerRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": err.Error()})
	}

	if req.Email == "" || req.Password == "" || req.Username == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Include all fields"})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "invalid email address"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "could not hash password"})
	}

	user, err := h.Users.Create(c.Context(), store.NewUser{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Provider:     models.ProviderLocal,
		DisplayName:  req.DisplayName,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return c.Status(400).JSON(fiber.Map{"message": "User already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"message": "error creating user"})
	}

	// Đăng ký xong là đăng nhập luôn
	if err := h.establishSession(c, user.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "error logging in the user"})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "User created successfully",
		"user": fiber.Map{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
		},
	})
}

// Login xác thực email + mật khẩu và mở session mới
//
//	@Summary	Log in with email and password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Failure	401	{object}	map[string]interface{}
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req := new(loginRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": err.Error()})
	}

	// Email không tồn tại và mật khẩu sai phải trả về cùng một kết quả
	user, err := h.Users.FindByEmailAndProvider(c.Context(), req.Email, models.ProviderLocal)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return invalidCredentials(c)
		}
		return c.Status(500).JSON(fiber.Map{"message": "error logging in"})
	}

	switch method := user.AuthMethod().(type) {
	case models.LocalPassword:
		if bcrypt.CompareHashAndPassword([]byte(method.Hash), []byte(req.Password)) != nil {
			return invalidCredentials(c)
		}
	case models.ExternalProvider:
		// Tài khoản OAuth không có mật khẩu cục bộ để so sánh
		return invalidCredentials(c)
	default:
		return invalidCredentials(c)
	}

	if err := h.establishSession(c, user.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "error creating session"})
	}

	return c.Status(200).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"user":    user.Public(),
	})
}

// Logout hủy session hiện tại. Gọi khi chưa đăng nhập vẫn trả về 200.
//
//	@Summary	Log out and destroy the session
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Failure	500	{object}	map[string]interface{}
//	@Router		/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := middleware.SessionToken(c)
	if token != "" {
		if err := h.Sessions.Delete(c.Context(), token); err != nil {
			// Hủy session thất bại thì giữ nguyên cookie
			return c.Status(500).JSON(fiber.Map{
				"message":      "Error logging out",
				"isSuccessful": false,
			})
		}
	}

	c.ClearCookie(session.CookieName)
	return c.Status(200).JSON(fiber.Map{
		"message":      "logout successful",
		"isSuccessful": true,
	})
}

// Me cho frontend biết ai đang đăng nhập
//
//	@Summary	Current authenticated user
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Failure	401	{object}	map[string]interface{}
//	@Router		/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(401).JSON(fiber.Map{"message": "Not authenticated"})
	}

	return c.Status(200).JSON(fiber.Map{"user": user.Public()})
}

// establishSession tạo session trong database và đặt cookie đã ký
func (h *AuthHandler) establishSession(c *fiber.Ctx, userID string) error {
	sess, err := h.Sessions.Create(c.Context(), userID, session.TTL)
	if err != nil {
		return err
	}

	signed, err := session.Sign(sess.Token, sess.ExpiresAt, h.Secret)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    signed,
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.Secure,
		SameSite: "Lax",
		Path:     "/",
	})
	return nil
}

func invalidCredentials(c *fiber.Ctx) error {
	// Cố tình không nói rõ email hay mật khẩu sai
	return c.Status(401).JSON(fiber.Map{"message": "invalid email or password"})
}
