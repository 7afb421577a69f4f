// Пакет gemini — клиент генеративной модели Gemini.
// Два вызова над транскриптом: определение ролей спикеров (best-effort)
// и генерация структурированного резюме (обязательная).
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/arturkryukov/intervox/internal/domain/model"
)

// ErrNoSummaryGenerated — модель вернула пустое резюме.
var ErrNoSummaryGenerated = errors.New("no summary generated")

// Client — клиент Gemini API.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// New создаёт клиент Gemini API с API-ключом.
// timeout — таймаут одного вызова генерации.
func New(ctx context.Context, apiKey, modelName string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("создание Gemini клиента: %w", err)
	}

	return &Client{
		client:  client,
		model:   modelName,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "gemini_client")),
	}, nil
}

// generate выполняет один вызов генерации и возвращает текст ответа.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	temp := float32(0.3)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}

	start := time.Now()
	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	c.logger.Debug("Ответ Gemini получен",
		slog.Duration("duration", time.Since(start)),
	)

	return res.Text(), nil
}

// IdentifySpeakers заменяет обезличенные метки "Speaker N" на роли или
// имена, определённые моделью по контексту. Шаг best-effort: если ответ
// модели не разбирается как JSON-маппинг, транскрипт возвращается
// без изменений. Ошибка самого вызова сервиса — жёсткая.
func (c *Client) IdentifySpeakers(ctx context.Context, transcription string, lang model.Language) (string, error) {
	raw, err := c.generate(ctx, speakerPrompt(transcription, lang.Name()))
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(raw) == "" {
		return transcription, nil
	}

	return applySpeakerMap(transcription, raw), nil
}

// Summarize генерирует структурированное резюме транскрипта
// на целевом языке. Пустой ответ — ошибка ErrNoSummaryGenerated.
func (c *Client) Summarize(ctx context.Context, transcription string, lang model.Language) (string, error) {
	summary, err := c.generate(ctx, summaryPrompt(transcription, lang.Name()))
	if err != nil {
		return "", err
	}

	if summary == "" {
		return "", ErrNoSummaryGenerated
	}

	return summary, nil
}
