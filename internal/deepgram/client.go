// Пакет deepgram — HTTP-клиент к Deepgram prerecorded API (/v1/listen).
// Запрашивает пословные таймстемпы, пунктуацию и диаризацию,
// склеивает слова одного спикера в реплики "Speaker N: ...".
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arturkryukov/intervox/internal/domain/model"
)

// ErrNoTranscriptionResult — сервис не вернул ни пословных данных,
// ни плоского транскрипта.
var ErrNoTranscriptionResult = errors.New("no transcription result received")

// Client — HTTP-клиент к Deepgram API.
type Client struct {
	baseURL string // Базовый URL API (без trailing slash)
	apiKey  string
	model   string // Модель распознавания (nova-3)

	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент к Deepgram API.
// baseURL — базовый URL (например, https://api.deepgram.com).
// timeout — таймаут одного запроса транскрипции.
func New(baseURL, apiKey, model string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(slog.String("component", "deepgram_client")),
	}
}

// listenEndpoint возвращает URL prerecorded endpoint'а с параметрами запроса.
func (c *Client) listenEndpoint(lang model.Language) string {
	q := url.Values{
		"model":        {c.model},
		"language":     {lang.Code()},
		"smart_format": {"true"},
		"punctuate":    {"true"},
		"diarize":      {"true"},
	}
	return c.baseURL + "/v1/listen?" + q.Encode()
}

// Transcribe отправляет аудио на распознавание и возвращает
// диаризованный текст. Пословные данные склеиваются в реплики;
// при их отсутствии используется плоский транскрипт сервиса.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string, lang model.Language) (string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.listenEndpoint(lang), bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("создание запроса транскрипции: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", mimeType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("запрос к Deepgram: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("чтение ответа Deepgram: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Deepgram transcription failed: %s", serviceErrorMessage(resp.StatusCode, body))
	}

	var result transcriptionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("разбор ответа Deepgram: %w", err)
	}

	alt := result.firstAlternative()
	if alt == nil {
		return "", ErrNoTranscriptionResult
	}

	c.logger.Debug("Транскрипция получена",
		slog.Int("words", len(alt.Words)),
		slog.Duration("duration", time.Since(start)),
	)

	// Fallback на плоский транскрипт при отсутствии пословных данных
	if len(alt.Words) == 0 {
		if alt.Transcript == "" {
			return "", ErrNoTranscriptionResult
		}
		return alt.Transcript, nil
	}

	return FormatSegments(MergeWords(alt.Words)), nil
}

// serviceErrorMessage извлекает сообщение об ошибке из тела ответа сервиса.
func serviceErrorMessage(statusCode int, body []byte) string {
	var errResp struct {
		ErrCode string `json:"err_code"`
		ErrMsg  string `json:"err_msg"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.ErrMsg != "" {
		return errResp.ErrMsg
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Sprintf("HTTP %d", statusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", statusCode, msg)
}

// MergeWords склеивает последовательные слова одного спикера в сегменты.
// Граница сегмента — смена индекса спикера между соседними словами.
// Пунктуированная форма слова предпочитается сырому токену.
func MergeWords(words []Word) []model.TranscriptSegment {
	if len(words) == 0 {
		return nil
	}

	var segments []model.TranscriptSegment
	current := model.TranscriptSegment{Speaker: words[0].SpeakerIndex()}
	var line []string

	for _, w := range words {
		if w.SpeakerIndex() != current.Speaker {
			current.Text = strings.Join(line, " ")
			segments = append(segments, current)
			current = model.TranscriptSegment{Speaker: w.SpeakerIndex()}
			line = line[:0]
		}
		line = append(line, w.Text())
	}

	current.Text = strings.Join(line, " ")
	return append(segments, current)
}

// FormatSegments форматирует сегменты в текст вида
// "Speaker 1: ...\n\nSpeaker 2: ...". Индекс спикера в выводе с единицы.
func FormatSegments(segments []model.TranscriptSegment) string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		lines = append(lines, fmt.Sprintf("Speaker %d: %s", s.Speaker+1, s.Text))
	}
	return strings.Join(lines, "\n\n")
}
