// Пакет config — загрузка и валидация конфигурации Intervox
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Intervox.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Аутентификация ---

	// Имя пользователя единственной учётной записи
	AuthUsername string
	// Пароль единственной учётной записи
	AuthPassword string
	// Секрет для HMAC-подписи session cookie.
	// Если пуст — генерируется случайный (сессии не переживают рестарт).
	SessionSecret string
	// Время жизни сессии
	SessionTTL time.Duration
	// Secure flag для session cookie (true за HTTPS)
	CookieSecure bool

	// --- Deepgram ---

	// API-ключ Deepgram
	DeepgramAPIKey string
	// Базовый URL Deepgram API
	DeepgramURL string
	// Модель распознавания речи
	DeepgramModel string
	// Таймаут одного запроса транскрипции
	DeepgramTimeout time.Duration

	// --- Gemini ---

	// API-ключ Gemini
	GeminiAPIKey string
	// Модель генерации
	GeminiModel string
	// Таймаут одного запроса генерации
	GeminiTimeout time.Duration

	// --- Загрузка файлов ---

	// Максимальный размер одного аудиофайла в байтах
	MaxFileSize int64
	// Максимальное количество файлов в одном запросе
	MaxFileCount int

	// --- Мониторинг зависимостей ---

	// Имя группы topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// IV_PORT — порт HTTP-сервера (по умолчанию 3520)
	cfg.Port, err = getEnvInt("IV_PORT", 3520)
	if err != nil {
		return nil, fmt.Errorf("IV_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("IV_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// IV_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("IV_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("IV_LOG_LEVEL: %w", err)
	}

	// IV_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("IV_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("IV_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Аутентификация ---

	// IV_AUTH_USERNAME — обязательный
	cfg.AuthUsername, err = getEnvRequired("IV_AUTH_USERNAME")
	if err != nil {
		return nil, err
	}

	// IV_AUTH_PASSWORD — обязательный
	cfg.AuthPassword, err = getEnvRequired("IV_AUTH_PASSWORD")
	if err != nil {
		return nil, err
	}

	// IV_SESSION_SECRET — секрет подписи cookie (опционально)
	cfg.SessionSecret = getEnvDefault("IV_SESSION_SECRET", "")

	// IV_SESSION_TTL — время жизни сессии (по умолчанию 7 суток)
	cfg.SessionTTL, err = getEnvDuration("IV_SESSION_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("IV_SESSION_TTL: %w", err)
	}

	// IV_COOKIE_SECURE — Secure flag для cookie (по умолчанию false)
	cfg.CookieSecure, err = getEnvBool("IV_COOKIE_SECURE", false)
	if err != nil {
		return nil, fmt.Errorf("IV_COOKIE_SECURE: %w", err)
	}

	// --- Deepgram ---

	// IV_DEEPGRAM_API_KEY — обязательный
	cfg.DeepgramAPIKey, err = getEnvRequired("IV_DEEPGRAM_API_KEY")
	if err != nil {
		return nil, err
	}

	// IV_DEEPGRAM_URL — базовый URL API (по умолчанию https://api.deepgram.com)
	cfg.DeepgramURL = strings.TrimRight(getEnvDefault("IV_DEEPGRAM_URL", "https://api.deepgram.com"), "/")

	// IV_DEEPGRAM_MODEL — модель распознавания (по умолчанию nova-3)
	cfg.DeepgramModel = getEnvDefault("IV_DEEPGRAM_MODEL", "nova-3")

	// IV_DEEPGRAM_TIMEOUT — таймаут транскрипции (по умолчанию 10m)
	cfg.DeepgramTimeout, err = getEnvDuration("IV_DEEPGRAM_TIMEOUT", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("IV_DEEPGRAM_TIMEOUT: %w", err)
	}

	// --- Gemini ---

	// IV_GEMINI_API_KEY — обязательный
	cfg.GeminiAPIKey, err = getEnvRequired("IV_GEMINI_API_KEY")
	if err != nil {
		return nil, err
	}

	// IV_GEMINI_MODEL — модель генерации (по умолчанию gemini-2.0-flash)
	cfg.GeminiModel = getEnvDefault("IV_GEMINI_MODEL", "gemini-2.0-flash")

	// IV_GEMINI_TIMEOUT — таймаут генерации (по умолчанию 2m)
	cfg.GeminiTimeout, err = getEnvDuration("IV_GEMINI_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("IV_GEMINI_TIMEOUT: %w", err)
	}

	// --- Загрузка файлов ---

	// IV_MAX_FILE_SIZE — максимальный размер файла (по умолчанию 200 MiB)
	cfg.MaxFileSize, err = getEnvInt64("IV_MAX_FILE_SIZE", 200*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("IV_MAX_FILE_SIZE: %w", err)
	}
	if cfg.MaxFileSize < 1 {
		return nil, fmt.Errorf("IV_MAX_FILE_SIZE: значение должно быть положительным")
	}

	// IV_MAX_FILE_COUNT — максимальное количество файлов (по умолчанию 20)
	cfg.MaxFileCount, err = getEnvInt("IV_MAX_FILE_COUNT", 20)
	if err != nil {
		return nil, fmt.Errorf("IV_MAX_FILE_COUNT: %w", err)
	}
	if cfg.MaxFileCount < 1 || cfg.MaxFileCount > 100 {
		return nil, fmt.Errorf("IV_MAX_FILE_COUNT: значение %d вне допустимого диапазона 1-100", cfg.MaxFileCount)
	}

	// --- Мониторинг зависимостей ---

	// IV_DEPHEALTH_GROUP — группа topologymetrics (по умолчанию intervox)
	cfg.DephealthGroup = getEnvDefault("IV_DEPHEALTH_GROUP", "intervox")

	// IV_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("IV_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("IV_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// IV_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("IV_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("IV_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 из переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
