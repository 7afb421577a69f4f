// auth.go — middleware проверки сессии для защищённых маршрутов.
// Два класса маршрутов: API (401 JSON) и страницы (redirect на /).
// Семантика проверки одинаковая, различается только форма отказа.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	apierrors "github.com/arturkryukov/intervox/internal/api/errors"
	"github.com/arturkryukov/intervox/internal/auth"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

// ContextKeySession — сессия аутентифицированного пользователя в контексте запроса.
const ContextKeySession contextKey = "session"

// SessionAuth — middleware проверки session cookie.
type SessionAuth struct {
	manager *auth.Manager
	logger  *slog.Logger
}

// NewSessionAuth создаёт SessionAuth middleware.
func NewSessionAuth(manager *auth.Manager, logger *slog.Logger) *SessionAuth {
	return &SessionAuth{
		manager: manager,
		logger:  logger.With(slog.String("component", "session_auth")),
	}
}

// API возвращает middleware для API-маршрутов:
// отсутствующая или истёкшая сессия — 401 с JSON-телом.
func (sa *SessionAuth) API() func(http.Handler) http.Handler {
	return sa.middleware(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.Unauthorized(w, "Unauthorized")
	})
}

// Page возвращает middleware для страничных маршрутов:
// отсутствующая или истёкшая сессия — redirect на страницу логина.
func (sa *SessionAuth) Page() func(http.Handler) http.Handler {
	return sa.middleware(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})
}

// middleware — общая логика проверки; reject вызывается при отказе.
func (sa *SessionAuth) middleware(reject func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Извлекаем токен из подписанного cookie
			token, ok := sa.manager.TokenFromRequest(r)
			if !ok {
				reject(w, r)
				return
			}

			// 2. Проверяем сессию (истёкшая запись удаляется при проверке)
			session, err := sa.manager.Authenticate(token)
			if err != nil {
				sa.logger.Debug("Отказ в доступе по сессии",
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
				)
				reject(w, r)
				return
			}

			// 3. Помещаем сессию в контекст запроса
			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext извлекает сессию из контекста запроса.
// Возвращает nil, если запрос не прошёл через SessionAuth.
func SessionFromContext(ctx context.Context) *auth.Session {
	session, ok := ctx.Value(ContextKeySession).(*auth.Session)
	if !ok {
		return nil
	}
	return session
}
