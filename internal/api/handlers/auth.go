// auth.go — обработчики аутентификации: login, logout, check-auth.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/arturkryukov/intervox/internal/api/errors"
	"github.com/arturkryukov/intervox/internal/auth"
)

// AuthHandler — обработчики сессионной аутентификации.
type AuthHandler struct {
	manager *auth.Manager
	logger  *slog.Logger
}

// NewAuthHandler создаёт AuthHandler.
func NewAuthHandler(manager *auth.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		manager: manager,
		logger:  logger.With(slog.String("component", "auth_handler")),
	}
}

// HandleLogin — POST /api/login (form-encoded: username, password).
// При успехе устанавливает session cookie и возвращает {"success": true}.
// Неверные учётные данные — 401 с обобщённым сообщением; какое именно
// поле не совпало, не раскрывается.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apierrors.ValidationError(w, "Invalid form data")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	session, err := h.manager.Login(username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Warn("Неудачная попытка входа",
				slog.String("remote_addr", r.RemoteAddr),
			)
			apierrors.Unauthorized(w, "Invalid credentials")
			return
		}
		h.logger.Error("Ошибка создания сессии", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Login failed")
		return
	}

	h.manager.SetSessionCookie(w, session)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// HandleLogout — POST /api/logout.
// Идемпотентен: отзывает сессию, если она есть, всегда очищает cookie
// и возвращает {"success": true}.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := h.manager.TokenFromRequest(r); ok {
		h.manager.Logout(token)
	}
	h.manager.ClearSessionCookie(w)

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// HandleCheckAuth — GET /api/check-auth.
// Проверка статуса сессии для UI: та же граница истечения, что и у
// middleware, но всегда 200 и никогда не redirect.
func (h *AuthHandler) HandleCheckAuth(w http.ResponseWriter, r *http.Request) {
	token, ok := h.manager.TokenFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.manager.Authenticate(token)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"username":      session.Username,
	})
}
