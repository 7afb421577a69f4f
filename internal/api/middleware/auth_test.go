package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/arturkryukov/intervox/internal/auth"
)

// newTestAuth создаёт SessionAuth с in-memory хранилищем для тестов.
func newTestAuth(t *testing.T) (*SessionAuth, *auth.Manager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	manager, err := auth.NewManager(auth.NewMemoryStore(), "admin", "secret", "test-secret", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewManager вернул ошибку: %v", err)
	}
	return NewSessionAuth(manager, logger), manager
}

// okHandler — handler, проверяющий наличие сессии в контексте.
func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()) == nil {
			t.Error("сессия отсутствует в контексте защищённого запроса")
		}
		w.WriteHeader(http.StatusOK)
	})
}

// loginAndCookie выполняет login и возвращает session cookie.
func loginAndCookie(t *testing.T, manager *auth.Manager) *http.Cookie {
	t.Helper()

	s, err := manager.Login("admin", "secret")
	if err != nil {
		t.Fatalf("Login вернул ошибку: %v", err)
	}
	rec := httptest.NewRecorder()
	manager.SetSessionCookie(rec, s)
	return rec.Result().Cookies()[0]
}

func TestAPI_ValidSession(t *testing.T) {
	sa, manager := newTestAuth(t)
	handler := sa.API()(okHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", nil)
	req.AddCookie(loginAndCookie(t, manager))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("статус = %d, ожидается 200", rec.Code)
	}
}

func TestAPI_MissingCookie(t *testing.T) {
	sa, _ := newTestAuth(t)
	handler := sa.API()(okHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("статус = %d, ожидается 401", rec.Code)
	}

	// API-класс: структурированное JSON-тело, не redirect
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("тело 401 не является JSON: %v", err)
	}
	if body.Success {
		t.Error("success = true в теле 401")
	}
	if body.Error == "" {
		t.Error("error пустой в теле 401")
	}
}

func TestPage_MissingCookie_Redirects(t *testing.T) {
	sa, _ := newTestAuth(t)
	handler := sa.Page()(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("статус = %d, ожидается 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, ожидается /", loc)
	}
}

func TestAPI_ExpiredSession(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store := auth.NewMemoryStore()
	manager, err := auth.NewManager(store, "admin", "secret", "test-secret", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewManager вернул ошибку: %v", err)
	}
	sa := NewSessionAuth(manager, logger)

	// Истёкшая сессия с корректно подписанным cookie
	expired := &auth.Session{
		Token:     "expired-token",
		Username:  "admin",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	store.Put(expired)

	rec := httptest.NewRecorder()
	manager.SetSessionCookie(rec, expired)
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()

	sa.API()(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("статус = %d, ожидается 401", rec.Code)
	}
	if _, ok := store.Get("expired-token"); ok {
		t.Error("истёкшая сессия не удалена из хранилища")
	}
}

func TestPage_ValidSession(t *testing.T) {
	sa, manager := newTestAuth(t)
	handler := sa.Page()(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	req.AddCookie(loginAndCookie(t, manager))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("статус = %d, ожидается 200", rec.Code)
	}
}
