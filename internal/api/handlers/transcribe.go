// transcribe.go — приём аудиофайлов и выдача готового отчёта.
package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"

	apierrors "github.com/arturkryukov/intervox/internal/api/errors"
	"github.com/arturkryukov/intervox/internal/domain/model"
	"github.com/arturkryukov/intervox/internal/service"
)

// Полный список известных аудио MIME-типов. Типы вида audio/* проходят
// и без списка, здесь перечислены нестандартные варианты, которые
// присылают браузеры и мобильные клиенты.
var allowedAudioTypes = map[string]struct{}{
	"audio/mpeg":               {},
	"audio/mp3":                {},
	"audio/mpeg3":              {},
	"audio/x-mpeg-3":           {},
	"audio/wav":                {},
	"audio/wave":               {},
	"audio/x-wav":              {},
	"audio/vnd.wave":           {},
	"audio/webm":               {},
	"audio/ogg":                {},
	"audio/vorbis":             {},
	"audio/opus":               {},
	"audio/aac":                {},
	"audio/aacp":               {},
	"audio/mp4":                {},
	"audio/m4a":                {},
	"audio/x-m4a":              {},
	"audio/mp4a-latm":          {},
	"audio/flac":               {},
	"audio/x-flac":             {},
	"audio/aiff":               {},
	"audio/x-aiff":             {},
	"audio/amr":                {},
	"audio/amr-wb":             {},
	"audio/x-ms-wma":           {},
	"audio/wma":                {},
	"audio/x-wma":              {},
	"audio/basic":              {},
	"audio/L16":                {},
	"audio/L24":                {},
	"application/octet-stream": {},
}

// TranscribeHandler — обработчик POST /api/transcribe.
type TranscribeHandler struct {
	pipeline     *service.Pipeline
	maxFileSize  int64
	maxFileCount int
	logger       *slog.Logger
}

// NewTranscribeHandler создаёт TranscribeHandler.
func NewTranscribeHandler(pipeline *service.Pipeline, maxFileSize int64, maxFileCount int, logger *slog.Logger) *TranscribeHandler {
	return &TranscribeHandler{
		pipeline:     pipeline,
		maxFileSize:  maxFileSize,
		maxFileCount: maxFileCount,
		logger:       logger.With(slog.String("component", "transcribe_handler")),
	}
}

// HandleTranscribe принимает multipart/form-data с полем language и
// файловыми частями audio, прогоняет их через пайплайн и отдаёт отчёт
// как вложение. Порядок файлов в теле запроса сохраняется.
func (h *TranscribeHandler) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	jobID := uuid.NewString()
	logger := h.logger.With(slog.String("job_id", jobID))

	reader, err := r.MultipartReader()
	if err != nil {
		apierrors.ValidationError(w, "Expected multipart/form-data request")
		return
	}

	language := model.DefaultLanguage
	var files []model.AudioFile

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Error("Ошибка чтения multipart-части", slog.String("error", err.Error()))
			apierrors.ValidationError(w, "Malformed multipart request")
			return
		}

		switch part.FormName() {
		case "language":
			value, err := io.ReadAll(io.LimitReader(part, 64))
			part.Close()
			if err != nil {
				apierrors.ValidationError(w, "Malformed multipart request")
				return
			}
			language = model.ParseLanguage(strings.TrimSpace(string(value)))

		case "audio":
			if len(files) >= h.maxFileCount {
				part.Close()
				apierrors.WriteError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("Too many files. Maximum is %d", h.maxFileCount))
				return
			}

			contentType := normalizeContentType(part.Header.Get("Content-Type"))
			if !isAllowedAudioType(contentType) {
				part.Close()
				apierrors.ValidationError(w,
					fmt.Sprintf("Unsupported format: %s. Please upload an audio file.", contentType))
				return
			}

			// Лимит size+1: если прочитали больше лимита, файл слишком большой.
			data, err := io.ReadAll(io.LimitReader(part, h.maxFileSize+1))
			part.Close()
			if err != nil {
				logger.Error("Ошибка чтения файла", slog.String("error", err.Error()))
				apierrors.ValidationError(w, "Failed to read uploaded file")
				return
			}
			if int64(len(data)) > h.maxFileSize {
				apierrors.WriteError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("File too large. Maximum size is %d bytes", h.maxFileSize))
				return
			}

			files = append(files, model.AudioFile{
				Filename:    part.FileName(),
				ContentType: contentType,
				Data:        data,
			})

		default:
			part.Close()
		}
	}

	if len(files) == 0 {
		apierrors.ValidationError(w, "No audio files provided")
		return
	}

	logger.Info("Принят запрос на транскрибацию",
		slog.Int("files", len(files)),
		slog.String("language", language.Code()),
	)

	report, err := h.pipeline.Process(r.Context(), jobID, files, language)
	if err != nil {
		logger.Error("Ошибка пайплайна", slog.String("error", err.Error()))
		apierrors.InternalError(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="interview-transcription.txt"`)
	w.WriteHeader(http.StatusOK)
	w.Write(report)
}

func normalizeContentType(raw string) string {
	if raw == "" {
		return "application/octet-stream"
	}
	if mediaType, _, err := mime.ParseMediaType(raw); err == nil {
		return mediaType
	}
	return raw
}

func isAllowedAudioType(contentType string) bool {
	if strings.HasPrefix(contentType, "audio/") {
		return true
	}
	_, ok := allowedAudioTypes[contentType]
	return ok
}
