// dephealth_test.go — тесты конструктора сервиса мониторинга зависимостей.
package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewDephealthService(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := NewDephealthServiceWithRegisterer(
		"test-group",
		"https://api.deepgram.com",
		30*time.Second,
		logger,
		prometheus.NewRegistry(),
	)
	if err != nil {
		t.Fatalf("ошибка создания dephealth сервиса: %v", err)
	}
	if svc == nil {
		t.Fatal("сервис не должен быть nil")
	}
}
