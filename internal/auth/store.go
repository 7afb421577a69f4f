// Пакет auth — аутентификация и управление сессиями Intervox.
// Единственная учётная запись из конфигурации, opaque-токены
// в in-memory хранилище, HMAC-подпись session cookie.
package auth

import (
	"sync"
	"time"
)

// Session — активная сессия пользователя.
// Создаётся при успешном login, удаляется при logout или по истечении
// ExpiresAt. Продление сессии не предусмотрено.
type Session struct {
	// Token — opaque-токен сессии (ключ хранилища)
	Token string
	// Username — идентификатор пользователя
	Username string
	// ExpiresAt — момент истечения сессии
	ExpiresAt time.Time
}

// Store — хранилище сессий по токену.
// Интерфейс позволяет заменить in-memory реализацию на внешнее
// keyed-хранилище, не трогая логику аутентификации.
type Store interface {
	// Get возвращает сессию по токену или false, если токен неизвестен.
	Get(token string) (*Session, bool)
	// Put сохраняет сессию.
	Put(s *Session)
	// Delete удаляет сессию. Отсутствующий токен — не ошибка.
	Delete(token string)
}

// MemoryStore — in-memory реализация Store.
// Сессии не переживают рестарт процесса — известное ограничение,
// приемлемое для одной учётной записи.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore создаёт пустое in-memory хранилище сессий.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Get возвращает сессию по токену.
func (ms *MemoryStore) Get(token string) (*Session, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	s, ok := ms.sessions[token]
	return s, ok
}

// Put сохраняет сессию.
func (ms *MemoryStore) Put(s *Session) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.sessions[s.Token] = s
}

// Delete удаляет сессию по токену.
func (ms *MemoryStore) Delete(token string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.sessions, token)
}

// Len возвращает количество активных записей (для логов и тестов).
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return len(ms.sessions)
}
