// health.go — обработчики health endpoints.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (Deepgram + Gemini доступны)
// /metrics — Prometheus метрики
package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arturkryukov/intervox/internal/config"
)

// DependencyHealth — источник состояния внешних зависимостей.
// Возвращает map имя зависимости → true, если зависимость доступна.
type DependencyHealth interface {
	Health() map[string]bool
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	deps        DependencyHealth
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// deps может быть nil, тогда readiness не проверяет зависимости.
func NewHealthHandler(deps DependencyHealth) *HealthHandler {
	return &HealthHandler{
		deps:        deps,
		promHandler: promhttp.Handler(),
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status string `json:"status"`
}

// healthResponse — ответ liveness и readiness probe.
type healthResponse struct {
	Status    string                       `json:"status"`
	Timestamp string                       `json:"timestamp"`
	Version   string                       `json:"version"`
	Service   string                       `json:"service"`
	Checks    map[string]healthCheckResult `json:"checks,omitempty"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "intervox",
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthReady — readiness probe. Проверяет доступность Deepgram и Gemini.
// Возвращает 200 (ok) или 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "intervox",
		Checks:    map[string]healthCheckResult{},
	}

	if h.deps != nil {
		for name, ok := range h.deps.Health() {
			status := "ok"
			if !ok {
				status = "fail"
				resp.Status = "fail"
			}
			resp.Checks[name] = healthCheckResult{Status: status}
		}
	}

	code := http.StatusOK
	if resp.Status == "fail" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}
