package models

import "time"

// Các provider xác thực được hỗ trợ
const (
	ProviderLocal = "local"
)

// User là cấu trúc dữ liệu của một người dùng đã đăng ký
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Không bao giờ trả về hash trong JSON
	Provider     string    `json:"provider"`
	DisplayName  string    `json:"displayName"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthMethod là biến thể có gắn thẻ của thông tin đăng nhập:
// hoặc mật kh�ẩu cục bộ, hoặc một provider bên ngoài.
// Switch trên kiểu này phải xử lý đầy đủ cả hai trường hợp.
type AuthMethod interface {
	isAuthMethod()
}

// LocalPassword là thông tin đăng nhập bằng mật khẩu đã hash
type LocalPassword struct {
	Hash string
}

// ExternalProvider là thông tin đăng nhập qua OAuth bên ngoài
type ExternalProvider struct {
	Name string
}

func (LocalPassword) isAuthMethod()    {}
func (ExternalProvider) isAuthMethod() {}

// AuthMethod trả về biến thể đăng nhập tương ứng với các cột lưu trữ
func (u *User) AuthMethod() AuthMethod {
	if u.Provider == ProviderLocal {
		return LocalPassword{Hash: u.PasswordHash}
	}
	return ExternalProvider{Name: u.Provider}
}

// PublicUser là phần thông tin người dùng an toàn để trả về cho client
type PublicUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

// Public chuyển User thành bản tóm tắt không chứa thông tin nhạy cảm
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Provider:    u.Provider,
	}
}
