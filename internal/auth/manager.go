// manager.go — выпуск и проверка сессий, работа с session cookie.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Имя cookie сессии.
const SessionCookieName = "sessionId"

// Размер токена сессии в байтах (до hex-кодирования).
const tokenBytes = 32

// Ошибки аутентификации.
var (
	// ErrInvalidCredentials — неверная пара логин/пароль.
	ErrInvalidCredentials = errors.New("неверные учётные данные")
	// ErrUnauthorized — отсутствующий, неизвестный или истёкший токен.
	ErrUnauthorized = errors.New("сессия недействительна")
)

// Manager — менеджер сессий: проверяет учётные данные, выпускает
// токены, проверяет и отзывает сессии, подписывает session cookie.
type Manager struct {
	store    Store
	username string
	password string
	ttl      time.Duration
	// key — ключ HMAC-подписи cookie (всегда 32 байта)
	key []byte
	// secure — Secure flag для cookie (true за HTTPS)
	secure bool
	logger *slog.Logger
}

// NewManager создаёт менеджер сессий.
// secret — ключ подписи cookie; если пуст, генерируется случайный
// (подписанные cookie перестают проверяться после рестарта, что
// эквивалентно потере in-memory сессий).
func NewManager(store Store, username, password, secret string, ttl time.Duration, secure bool, logger *slog.Logger) (*Manager, error) {
	var key []byte
	if secret == "" {
		key = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, fmt.Errorf("ошибка генерации ключа подписи cookie: %w", err)
		}
	} else {
		// Хешируем строковый секрет до 32 байт
		h := sha256.Sum256([]byte(secret))
		key = h[:]
	}

	return &Manager{
		store:    store,
		username: username,
		password: password,
		ttl:      ttl,
		key:      key,
		secure:   secure,
		logger:   logger.With(slog.String("component", "auth")),
	}, nil
}

// Login сверяет учётные данные с единственной настроенной парой.
// При совпадении выпускает криптостойкий токен и сохраняет сессию.
// Какое именно поле не совпало — не раскрывается.
func (m *Manager) Login(username, password string) (*Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) == 1
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токена сессии: %w", err)
	}

	s := &Session{
		Token:     token,
		Username:  username,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	m.store.Put(s)

	m.logger.Info("Сессия создана",
		slog.String("username", username),
		slog.Time("expires_at", s.ExpiresAt),
	)

	return s, nil
}

// Authenticate проверяет токен: неизвестный или истёкший токен
// классифицируется как ErrUnauthorized. Истёкшая запись при этом
// удаляется из хранилища.
func (m *Manager) Authenticate(token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	s, ok := m.store.Get(token)
	if !ok {
		return nil, ErrUnauthorized
	}

	// Граница истечения: момент ExpiresAt уже недействителен
	if !time.Now().Before(s.ExpiresAt) {
		m.store.Delete(token)
		m.logger.Debug("Истёкшая сессия удалена",
			slog.String("username", s.Username),
		)
		return nil, ErrUnauthorized
	}

	return s, nil
}

// Logout отзывает сессию. Идемпотентен: повторный вызов с тем же
// (уже недействительным) токеном — не ошибка.
func (m *Manager) Logout(token string) {
	if token == "" {
		return
	}
	m.store.Delete(token)
}

// --- Cookie ---

// SetSessionCookie устанавливает подписанный session cookie.
// Значение: <token>.<hex(HMAC-SHA256(token))>.
func (m *Manager) SetSessionCookie(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Token + "." + m.sign(s.Token),
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie удаляет session cookie (logout).
func (m *Manager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest извлекает токен из cookie запроса и проверяет
// HMAC-подпись. Отсутствующий cookie или неверная подпись — пустая
// строка и false.
func (m *Manager) TokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", false
	}

	token, sig, found := strings.Cut(cookie.Value, ".")
	if !found || token == "" {
		return "", false
	}

	if !hmac.Equal([]byte(sig), []byte(m.sign(token))) {
		m.logger.Warn("Session cookie с неверной подписью",
			slog.String("remote_addr", r.RemoteAddr),
		)
		return "", false
	}

	return token, true
}

// sign возвращает hex-строку HMAC-SHA256 от токена.
func (m *Manager) sign(token string) string {
	mac := hmac.New(sha256.New, m.key)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// generateToken выпускает криптостойкий opaque-токен.
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
