package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biosecret/go-todo/session"
)

func doJSON(t *testing.T, env *testEnv, method, path, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := env.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	return body
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == session.CookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("expected a session cookie")
	return nil
}

func register(t *testing.T, env *testEnv, email, username, password string) *http.Cookie {
	t.Helper()
	resp := doJSON(t, env, http.MethodPost, "/auth/register",
		`{"email":"`+email+`","username":"`+username+`","password":"`+password+`"}`)
	if resp.StatusCode != 201 {
		t.Fatalf("register returned %d", resp.StatusCode)
	}
	return sessionCookie(t, resp)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv()

	for _, body := range []string{
		`{"username":"a","password":"p1"}`,
		`{"email":"a@x.com","password":"p1"}`,
		`{"email":"a@x.com","username":"a"}`,
	} {
		resp := doJSON(t, env, http.MethodPost, "/auth/register", body)
		if resp.StatusCode != 400 {
			t.Fatalf("body %s: expected 400, got %d", body, resp.StatusCode)
		}
	}

	if len(env.users.users) != 0 {
		t.Fatalf("expected no users created, got %d", len(env.users.users))
	}
}

func TestRegisterInvalidEmail(t *testing.T) {
	env := newTestEnv()

	resp := doJSON(t, env, http.MethodPost, "/auth/register",
		`{"email":"not-an-email","username":"a","password":"p1"}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRegisterAutoLogin(t *testing.T) {
	env := newTestEnv()

	resp := doJSON(t, env, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","username":"a","password":"p1"}`)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	cookie := sessionCookie(t, resp)
	if len(env.sessions.sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(env.sessions.sessions))
	}

	// Cookie vừa nhận phải dùng được ngay
	me := doJSON(t, env, http.MethodGet, "/auth/me", "", cookie)
	if me.StatusCode != 200 {
		t.Fatalf("expected 200 from /auth/me, got %d", me.StatusCode)
	}
	body := decodeBody(t, me)
	user, ok := body["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected user object, got %#v", body)
	}
	if user["email"] != "a@x.com" {
		t.Fatalf("unexpected email: %v", user["email"])
	}
	if _, leaked := user["password"]; leaked {
		t.Fatal("password must never appear in responses")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	register(t, env, "a@x.com", "a", "p1")

	resp := doJSON(t, env, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","username":"b","password":"p2"}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
	if len(env.users.users) != 1 {
		t.Fatalf("duplicate registration must not create a row, got %d users", len(env.users.users))
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv()
	register(t, env, "a@x.com", "a", "p1")

	resp := doJSON(t, env, http.MethodPost, "/auth/register",
		`{"email":"b@x.com","username":"a","password":"p2"}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for duplicate username, got %d", resp.StatusCode)
	}
	if len(env.users.users) != 1 {
		t.Fatalf("duplicate registration must not create a row, got %d users", len(env.users.users))
	}
}

func TestRegisterWhileLoggedIn(t *testing.T) {
	env := newTestEnv()
	cookie := register(t, env, "a@x.com", "a", "p1")

	resp := doJSON(t, env, http.MethodPost, "/auth/register",
		`{"email":"b@x.com","username":"b","password":"p2"}`, cookie)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 when already authenticated, got %d", resp.StatusCode)
	}
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv()
	register(t, env, "a@x.com", "a", "p1")

	resp := doJSON(t, env, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"p1"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	sessionCookie(t, resp)
	body := decodeBody(t, resp)
	if body["success"] != true {
		t.Fatalf("expected success flag, got %#v", body)
	}
}

func TestLoginNoCredentialLeak(t *testing.T) {
	env := newTestEnv()
	register(t, env, "a@x.com", "a", "p1")

	// Mật khẩu sai và email chưa đăng ký phải cho cùng một kết quả
	wrongPassword := doJSON(t, env, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"wrong"}`)
	unknownEmail := doJSON(t, env, http.MethodPost, "/auth/login",
		`{"email":"nobody@x.com","password":"p1"}`)

	if wrongPassword.StatusCode != 401 || unknownEmail.StatusCode != 401 {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.StatusCode, unknownEmail.StatusCode)
	}

	bodyA := decodeBody(t, wrongPassword)
	bodyB := decodeBody(t, unknownEmail)
	if bodyA["message"] != bodyB["message"] {
		t.Fatalf("responses must be indistinguishable: %v vs %v", bodyA["message"], bodyB["message"])
	}
}

func TestLoginExternalProviderRejected(t *testing.T) {
	env := newTestEnv()
	register(t, env, "a@x.com", "a", "p1")
	for _, u := range env.users.users {
		u.Provider = "github"
		u.PasswordHash = ""
	}

	resp := doJSON(t, env, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"p1"}`)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 for OAuth account, got %d", resp.StatusCode)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	env := newTestEnv()
	cookie := register(t, env, "a@x.com", "a", "p1")

	resp := doJSON(t, env, http.MethodPost, "/auth/logout", "", cookie)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(env.sessions.sessions) != 0 {
		t.Fatalf("expected session destroyed, %d remain", len(env.sessions.sessions))
	}

	// Cookie cũ không còn dùng được nữa
	me := doJSON(t, env, http.MethodGet, "/auth/me", "", cookie)
	if me.StatusCode != 401 {
		t.Fatalf("expected 401 after logout, got %d", me.StatusCode)
	}
}

func TestLogoutAnonymousIsNotAnError(t *testing.T) {
	env := newTestEnv()

	resp := doJSON(t, env, http.MethodPost, "/auth/logout", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 for anonymous logout, got %d", resp.StatusCode)
	}
}

func TestLogoutSessionStoreFailure(t *testing.T) {
	env := newTestEnv()
	cookie := register(t, env, "a@x.com", "a", "p1")

	env.sessions.deleteErr = io.ErrUnexpectedEOF
	resp := doJSON(t, env, http.MethodPost, "/auth/logout", "", cookie)
	if resp.StatusCode != 500 {
		t.Fatalf("expected 500 on session-destroy failure, got %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName && c.Value == "" {
			t.Fatal("cookie must not be cleared when session destroy fails")
		}
	}
}

func TestMeAnonymous(t *testing.T) {
	env := newTestEnv()

	resp := doJSON(t, env, http.MethodGet, "/auth/me", "")
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
