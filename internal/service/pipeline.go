// Пакет service — бизнес-логика Intervox.
// pipeline.go — последовательный конвейер обработки загрузки:
// транскрипция каждого файла → склейка → определение спикеров →
// резюме → сборка отчёта.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/arturkryukov/intervox/internal/domain/model"
	"github.com/arturkryukov/intervox/internal/report"
)

// TranscriptSeparator — разделитель транскриптов разных файлов батча.
const TranscriptSeparator = "\n\n---\n\n"

// Transcriber — способность распознать один аудиофайл в текст.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string, lang model.Language) (string, error)
}

// Enhancer — пост-обработка транскрипта генеративной моделью.
type Enhancer interface {
	// IdentifySpeakers заменяет метки "Speaker N" на роли/имена (best-effort).
	IdentifySpeakers(ctx context.Context, transcription string, lang model.Language) (string, error)
	// Summarize генерирует резюме транскрипта (обязательный шаг).
	Summarize(ctx context.Context, transcription string, lang model.Language) (string, error)
}

// Pipeline — конвейер обработки одного запроса транскрипции.
// Этапы выполняются строго последовательно; ошибка любого этапа
// прерывает обработку, частичный отчёт не возвращается.
type Pipeline struct {
	transcriber Transcriber
	enhancer    Enhancer
	logger      *slog.Logger
}

// NewPipeline создаёт конвейер обработки.
func NewPipeline(transcriber Transcriber, enhancer Enhancer, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		enhancer:    enhancer,
		logger:      logger.With(slog.String("component", "pipeline")),
	}
}

// Process прогоняет файлы через конвейер и возвращает байты отчёта.
// Файлы транскрибируются последовательно в порядке загрузки; каждый
// файл диаризуется независимо, поэтому индексы спикеров между файлами
// не согласованы.
func (p *Pipeline) Process(ctx context.Context, jobID string, files []model.AudioFile, lang model.Language) ([]byte, error) {
	report, err := p.process(ctx, jobID, files, lang)
	observeRequest(err)
	return report, err
}

func (p *Pipeline) process(ctx context.Context, jobID string, files []model.AudioFile, lang model.Language) ([]byte, error) {
	logger := p.logger.With(slog.String("job_id", jobID))

	// 1. Транскрипция каждого файла в порядке загрузки
	transcriptions := make([]string, 0, len(files))
	for _, f := range files {
		logger.Info("Транскрибируется файл",
			slog.String("filename", f.Filename),
			slog.String("content_type", f.ContentType),
			slog.Int("size", len(f.Data)),
			slog.String("language", lang.Code()),
		)

		start := time.Now()
		transcript, err := p.transcriber.Transcribe(ctx, f.Data, f.ContentType, lang)
		observeStage("transcribe", start, err)
		if err != nil {
			logger.Error("Ошибка транскрипции",
				slog.String("filename", f.Filename),
				slog.String("error", err.Error()),
			)
			return nil, err
		}

		transcriptions = append(transcriptions, transcript)
	}

	combined := strings.Join(transcriptions, TranscriptSeparator)

	// 2. Определение ролей спикеров (best-effort внутри Enhancer)
	logger.Info("Определяются роли спикеров")
	start := time.Now()
	labeled, err := p.enhancer.IdentifySpeakers(ctx, combined, lang)
	observeStage("identify_speakers", start, err)
	if err != nil {
		logger.Error("Ошибка определения спикеров", slog.String("error", err.Error()))
		return nil, err
	}

	// 3. Резюме
	logger.Info("Генерируется резюме", slog.String("language", lang.Code()))
	start = time.Now()
	summary, err := p.enhancer.Summarize(ctx, labeled, lang)
	observeStage("summarize", start, err)
	if err != nil {
		logger.Error("Ошибка генерации резюме", slog.String("error", err.Error()))
		return nil, err
	}

	// 4. Сборка отчёта
	logger.Info("Собирается текстовый отчёт")
	return report.Build(summary, labeled), nil
}
