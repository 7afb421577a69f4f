// Пакет report — сборка итогового текстового отчёта.
// Фиксированная структура: заголовок, дата генерации, секции
// SUMMARY и FULL TRANSCRIPTION, разделённые линейками.
package report

import (
	"strings"
	"time"
)

// Заголовок отчёта.
const title = "Interview Transcription Report"

// Формат даты генерации (длинная дата в американской локали).
const dateLayout = "January 2, 2006"

// separator — линейка из 60 символов '='.
var separator = strings.Repeat("=", 60)

// Build собирает отчёт из резюме и транскрипта.
// Детерминирован с точностью до встроенной текущей даты.
func Build(summary, transcription string) []byte {
	return buildAt(time.Now(), summary, transcription)
}

// buildAt собирает отчёт с заданной датой генерации.
func buildAt(now time.Time, summary, transcription string) []byte {
	var b strings.Builder

	b.WriteString(title)
	b.WriteString("\nGenerated on ")
	b.WriteString(now.Format(dateLayout))
	b.WriteString("\n\n")

	b.WriteString(separator)
	b.WriteString("\nSUMMARY\n")
	b.WriteString(separator)
	b.WriteString("\n\n")
	b.WriteString(summary)
	b.WriteString("\n\n")

	b.WriteString(separator)
	b.WriteString("\nFULL TRANSCRIPTION\n")
	b.WriteString(separator)
	b.WriteString("\n\n")
	b.WriteString(transcription)
	b.WriteString("\n")

	return []byte(b.String())
}
