// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// Intervox мониторит два внешних API:
//   - Deepgram — HTTP checker к базовому URL API (critical)
//   - Gemini — HTTP checker к generativelanguage endpoint (critical)
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
//   - app_dependency_status — категория статуса
//   - app_dependency_status_detail — детальный статус
//
// Используется встроенный HTTP checker из dephealth SDK.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks" // Регистрация фабрик checker-ов (HTTP и др.)
	"github.com/prometheus/client_golang/prometheus"
)

// geminiHealthURL — endpoint проверки доступности Gemini API.
const geminiHealthURL = "https://generativelanguage.googleapis.com"

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
//
// Параметры:
//   - group — имя группы в метриках (IV_DEPHEALTH_GROUP)
//   - deepgramURL — базовый URL Deepgram API (IV_DEEPGRAM_URL)
//   - checkInterval — интервал проверки (IV_DEPHEALTH_CHECK_INTERVAL)
func NewDephealthService(
	group string,
	deepgramURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(group, deepgramURL, checkInterval, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus registerer.
// Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	group string,
	deepgramURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(group, deepgramURL, checkInterval, logger, dephealth.WithRegisterer(registerer))
}

// newDephealthService — внутренний конструктор.
func newDephealthService(
	group string,
	deepgramURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
		dephealth.HTTP("deepgram",
			dephealth.FromURL(deepgramURL),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		),
		dephealth.HTTP("gemini",
			dephealth.FromURL(geminiHealthURL),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		),
	}
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(
		"intervox",
		group,
		opts...,
	)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
