package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/arturkryukov/intervox/internal/domain/model"
)

// fakeTranscriber записывает вызовы и возвращает заготовленные транскрипты.
type fakeTranscriber struct {
	calls []string // имена файлов в порядке вызовов
	err   error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio []byte, _ string, _ model.Language) (string, error) {
	f.calls = append(f.calls, string(audio))
	if f.err != nil {
		return "", f.err
	}
	return "transcript:" + string(audio), nil
}

// fakeEnhancer — детерминированная подмена Gemini-клиента.
type fakeEnhancer struct {
	labelErr   error
	summaryErr error
	// labelPassthrough — вернуть транскрипт без изменений (деградация разбора)
	labelPassthrough bool
	// seenBySummarize — транскрипт, переданный в Summarize
	seenBySummarize string
}

func (f *fakeEnhancer) IdentifySpeakers(_ context.Context, transcription string, _ model.Language) (string, error) {
	if f.labelErr != nil {
		return "", f.labelErr
	}
	if f.labelPassthrough {
		return transcription, nil
	}
	return "labeled:" + transcription, nil
}

func (f *fakeEnhancer) Summarize(_ context.Context, transcription string, _ model.Language) (string, error) {
	f.seenBySummarize = transcription
	if f.summaryErr != nil {
		return "", f.summaryErr
	}
	return "summary", nil
}

func testPipeline(tr *fakeTranscriber, en *fakeEnhancer) *Pipeline {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewPipeline(tr, en, logger)
}

func audioFiles(names ...string) []model.AudioFile {
	files := make([]model.AudioFile, 0, len(names))
	for _, n := range names {
		files = append(files, model.AudioFile{
			Filename:    n + ".mp3",
			ContentType: "audio/mpeg",
			Data:        []byte(n),
		})
	}
	return files
}

func TestProcess_SequentialInUploadOrder(t *testing.T) {
	tr := &fakeTranscriber{}
	en := &fakeEnhancer{labelPassthrough: true}
	p := testPipeline(tr, en)

	_, err := p.Process(context.Background(), "job-1", audioFiles("a", "b", "c"), model.LanguageEN)
	if err != nil {
		t.Fatalf("Process вернул ошибку: %v", err)
	}

	// Транскрипция вызывается ровно N раз в порядке загрузки
	if len(tr.calls) != 3 {
		t.Fatalf("Transcribe вызван %d раз, ожидается 3", len(tr.calls))
	}
	for i, want := range []string{"a", "b", "c"} {
		if tr.calls[i] != want {
			t.Errorf("вызов %d = %q, ожидается %q", i, tr.calls[i], want)
		}
	}

	// Транскрипты склеены фиксированным разделителем
	want := "transcript:a" + TranscriptSeparator + "transcript:b" + TranscriptSeparator + "transcript:c"
	if en.seenBySummarize != want {
		t.Errorf("склеенный транскрипт = %q, ожидается %q", en.seenBySummarize, want)
	}
}

func TestProcess_ReportContainsSummaryAndTranscript(t *testing.T) {
	tr := &fakeTranscriber{}
	en := &fakeEnhancer{}
	p := testPipeline(tr, en)

	out, err := p.Process(context.Background(), "job-1", audioFiles("a"), model.LanguageEN)
	if err != nil {
		t.Fatalf("Process вернул ошибку: %v", err)
	}

	text := string(out)
	if !strings.Contains(text, "summary") {
		t.Error("отчёт не содержит резюме")
	}
	if !strings.Contains(text, "labeled:transcript:a") {
		t.Error("отчёт не содержит размеченный транскрипт")
	}
	// Summarize получает результат разметки спикеров, не исходный текст
	if en.seenBySummarize != "labeled:transcript:a" {
		t.Errorf("в Summarize передан %q, ожидается результат разметки", en.seenBySummarize)
	}
}

func TestProcess_TranscriptionErrorAborts(t *testing.T) {
	wantErr := errors.New("Deepgram transcription failed: corrupt audio")
	tr := &fakeTranscriber{err: wantErr}
	en := &fakeEnhancer{}
	p := testPipeline(tr, en)

	_, err := p.Process(context.Background(), "job-1", audioFiles("a", "b"), model.LanguageEN)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Process = %v, ожидается ошибка транскрипции", err)
	}

	// Конвейер прерывается на первом файле
	if len(tr.calls) != 1 {
		t.Errorf("Transcribe вызван %d раз после ошибки, ожидается 1", len(tr.calls))
	}
	if en.seenBySummarize != "" {
		t.Error("Summarize вызван несмотря на ошибку транскрипции")
	}
}

func TestProcess_SummaryErrorAborts(t *testing.T) {
	wantErr := fmt.Errorf("no summary generated")
	tr := &fakeTranscriber{}
	en := &fakeEnhancer{summaryErr: wantErr}
	p := testPipeline(tr, en)

	out, err := p.Process(context.Background(), "job-1", audioFiles("a"), model.LanguageEN)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Process = %v, ожидается ошибка резюме", err)
	}
	if out != nil {
		t.Error("частичный отчёт возвращён при ошибке резюме")
	}
}

func TestProcess_LabelErrorAborts(t *testing.T) {
	wantErr := errors.New("gemini generate content: quota exceeded")
	tr := &fakeTranscriber{}
	en := &fakeEnhancer{labelErr: wantErr}
	p := testPipeline(tr, en)

	if _, err := p.Process(context.Background(), "job-1", audioFiles("a"), model.LanguageEN); !errors.Is(err, wantErr) {
		t.Fatalf("Process = %v, ожидается ошибка вызова разметки", err)
	}
}
