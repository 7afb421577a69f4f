// Пакет server — HTTP-сервер Intervox с graceful shutdown.
// Без TLS — TLS termination на reverse proxy перед сервисом.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arturkryukov/intervox/internal/api/handlers"
	"github.com/arturkryukov/intervox/internal/api/middleware"
	"github.com/arturkryukov/intervox/internal/config"
	"github.com/arturkryukov/intervox/internal/ui/static"
)

// Server — HTTP-сервер Intervox.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
//
// Маршруты:
//   - GET  /                — страница логина (публичная)
//   - GET  /upload          — страница загрузки (session, redirect на /)
//   - POST /api/login       — вход (публичный)
//   - POST /api/logout      — выход (публичный, идемпотентный)
//   - GET  /api/check-auth  — статус сессии (публичный)
//   - POST /api/transcribe  — обработка аудио (session, 401 JSON)
//   - GET  /health/live, /health/ready, /metrics — служебные (публичные)
//   - GET  /css/*, /js/*    — статические ассеты (публичные)
func New(
	cfg *config.Config,
	logger *slog.Logger,
	authHandler *handlers.AuthHandler,
	transcribeHandler *handlers.TranscribeHandler,
	healthHandler *handlers.HealthHandler,
	sessionAuth *middleware.SessionAuth,
) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Аутентификация
	router.Post("/api/login", authHandler.HandleLogin)
	router.Post("/api/logout", authHandler.HandleLogout)
	router.Get("/api/check-auth", authHandler.HandleCheckAuth)

	// Транскрипция — только с валидной сессией, отказ как 401 JSON
	router.Group(func(r chi.Router) {
		r.Use(sessionAuth.API())
		r.Post("/api/transcribe", transcribeHandler.HandleTranscribe)
	})

	// Страница загрузки — только с валидной сессией, отказ как redirect на /
	router.Group(func(r chi.Router) {
		r.Use(sessionAuth.Page())
		r.Get("/upload", servePage("upload.html"))
	})

	// Health и metrics — проверяются Kubernetes напрямую
	router.Get("/health/live", healthHandler.HealthLive)
	router.Get("/health/ready", healthHandler.HealthReady)
	router.Get("/metrics", healthHandler.GetMetrics)

	// Страница логина и статические ассеты
	router.Get("/", servePage("index.html"))
	fileServer := http.FileServer(static.FileSystem())
	router.Get("/css/*", fileServer.ServeHTTP)
	router.Get("/js/*", fileServer.ServeHTTP)

	// WriteTimeout не задан: обработка батча аудио может занимать
	// десятки минут, длительность ограничивают таймауты внешних API.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// servePage отдаёт встроенную HTML-страницу.
func servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := static.Page(name)
		if err != nil {
			http.Error(w, "page not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
