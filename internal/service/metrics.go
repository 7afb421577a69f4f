// metrics.go — Prometheus метрики конвейера обработки.
package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pipelineStageDuration — гистограмма длительности этапов конвейера.
	pipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iv_pipeline_stage_duration_seconds",
			Help:    "Длительность этапов конвейера обработки в секундах",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"stage", "status"},
	)

	// transcribeRequests — счётчик запросов транскрипции по статусу.
	transcribeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iv_transcribe_requests_total",
			Help: "Количество обработанных запросов транскрипции",
		},
		[]string{"status"},
	)
)

// observeRequest записывает итог обработки одного запроса конвейера.
func observeRequest(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	transcribeRequests.WithLabelValues(status).Inc()
}

// observeStage записывает длительность этапа конвейера.
func observeStage(stage string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	pipelineStageDuration.WithLabelValues(stage, status).Observe(time.Since(start).Seconds())
}
