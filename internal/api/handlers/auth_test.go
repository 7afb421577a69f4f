package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/arturkryukov/intervox/internal/auth"
)

func testAuthHandler(t *testing.T) (*AuthHandler, *auth.Manager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager, err := auth.NewManager(auth.NewMemoryStore(), "admin", "secret", "test-key", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("ошибка создания менеджера сессий: %v", err)
	}
	return NewAuthHandler(manager, logger), manager
}

func loginRequest(username, password string) *http.Request {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleLogin_Success(t *testing.T) {
	h, _ := testAuthHandler(t)

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginRequest("admin", "secret"))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался статус 200, получен %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("ошибка разбора ответа: %v", err)
	}
	if body["success"] != true {
		t.Errorf("ожидался success=true, получен %v", body["success"])
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie не установлена")
	}
	if !sessionCookie.HttpOnly {
		t.Error("cookie должна быть HttpOnly")
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	h, _ := testAuthHandler(t)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"неверный пароль", "admin", "wrong"},
		{"неверный логин", "wrong", "secret"},
		{"пустые поля", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleLogin(rec, loginRequest(tc.username, tc.password))

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("ожидался статус 401, получен %d", rec.Code)
			}

			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("ошибка разбора ответа: %v", err)
			}
			if body["success"] != false {
				t.Errorf("ожидался success=false, получен %v", body["success"])
			}
			if body["error"] != "Invalid credentials" {
				t.Errorf("неожиданное сообщение об ошибке: %v", body["error"])
			}
			if len(rec.Result().Cookies()) != 0 {
				t.Error("cookie не должна устанавливаться при неверных учётных данных")
			}
		})
	}
}

func TestHandleLogout_Idempotent(t *testing.T) {
	h, manager := testAuthHandler(t)

	// Логинимся и забираем cookie
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginRequest("admin", "secret"))
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login не установил cookie")
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h.HandleLogout(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("попытка %d: ожидался статус 200, получен %d", i+1, rec.Code)
		}
	}

	// После logout сессия отозвана
	token, ok := manager.TokenFromRequest(&http.Request{Header: http.Header{"Cookie": {cookies[0].String()}}})
	if !ok {
		t.Fatal("токен не извлёкся из cookie")
	}
	if _, err := manager.Authenticate(token); err == nil {
		t.Error("сессия должна быть отозвана после logout")
	}
}

func TestHandleCheckAuth(t *testing.T) {
	h, _ := testAuthHandler(t)

	// Без cookie
	rec := httptest.NewRecorder()
	h.HandleCheckAuth(rec, httptest.NewRequest(http.MethodGet, "/api/check-auth", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался статус 200, получен %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("ошибка разбора ответа: %v", err)
	}
	if body["authenticated"] != false {
		t.Errorf("без cookie ожидался authenticated=false, получен %v", body["authenticated"])
	}

	// С валидной сессией
	loginRec := httptest.NewRecorder()
	h.HandleLogin(loginRec, loginRequest("admin", "secret"))

	req := httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
	for _, c := range loginRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.HandleCheckAuth(rec, req)

	body = map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("ошибка разбора ответа: %v", err)
	}
	if body["authenticated"] != true {
		t.Errorf("с валидной сессией ожидался authenticated=true, получен %v", body["authenticated"])
	}
	if body["username"] != "admin" {
		t.Errorf("ожидался username=admin, получен %v", body["username"])
	}
}
