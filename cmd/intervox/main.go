// Точка входа Intervox — сервис транскрипции интервью.
// Загружает конфигурацию, создаёт клиенты Deepgram и Gemini, собирает
// конвейер обработки, запускает мониторинг зависимостей (topologymetrics)
// и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/arturkryukov/intervox/internal/api/handlers"
	"github.com/arturkryukov/intervox/internal/api/middleware"
	"github.com/arturkryukov/intervox/internal/auth"
	"github.com/arturkryukov/intervox/internal/config"
	"github.com/arturkryukov/intervox/internal/deepgram"
	"github.com/arturkryukov/intervox/internal/gemini"
	"github.com/arturkryukov/intervox/internal/server"
	"github.com/arturkryukov/intervox/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Intervox запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// Предупреждения о значениях по умолчанию
	if cfg.SessionSecret == "" {
		logger.Warn("IV_SESSION_SECRET не задан, сессии не переживают рестарт")
	}
	if os.Getenv("IV_DEPHEALTH_GROUP") == "" {
		logger.Warn("IV_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	ctx := context.Background()

	// 3. Менеджер сессий (in-memory store, единственная учётная запись)
	sessionStore := auth.NewMemoryStore()
	sessionMgr, err := auth.NewManager(
		sessionStore,
		cfg.AuthUsername, cfg.AuthPassword,
		cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания менеджера сессий", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Клиент Deepgram (транскрипция с диаризацией)
	deepgramClient := deepgram.New(
		cfg.DeepgramURL, cfg.DeepgramAPIKey, cfg.DeepgramModel,
		cfg.DeepgramTimeout,
		logger,
	)
	logger.Info("Deepgram клиент создан",
		slog.String("url", cfg.DeepgramURL),
		slog.String("model", cfg.DeepgramModel),
	)

	// 5. Клиент Gemini (определение спикеров, резюме)
	geminiClient, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout, logger)
	if err != nil {
		logger.Error("Ошибка создания Gemini клиента", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Gemini клиент создан", slog.String("model", cfg.GeminiModel))

	// 6. Конвейер обработки
	pipeline := service.NewPipeline(deepgramClient, geminiClient, logger)

	// 7. topologymetrics — мониторинг зависимостей (Deepgram + Gemini)
	var dephealthSvc *service.DephealthService
	dephealthSvc, dephealthErr := service.NewDephealthService(
		cfg.DephealthGroup,
		cfg.DeepgramURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
			dephealthSvc = nil
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 8. Handlers и middleware
	authHandler := handlers.NewAuthHandler(sessionMgr, logger)
	transcribeHandler := handlers.NewTranscribeHandler(pipeline, cfg.MaxFileSize, cfg.MaxFileCount, logger)

	var healthHandler *handlers.HealthHandler
	if dephealthSvc != nil {
		healthHandler = handlers.NewHealthHandler(dephealthSvc)
	} else {
		healthHandler = handlers.NewHealthHandler(nil)
	}

	sessionAuth := middleware.NewSessionAuth(sessionMgr, logger)

	// 9. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, authHandler, transcribeHandler, healthHandler, sessionAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 10. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Intervox остановлен")
}
