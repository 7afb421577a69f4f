// audio.go — загруженные аудиофайлы и сегменты транскрипции.
package model

// AudioFile — аудиофайл из multipart-запроса.
// Существует только в памяти на время одного запроса,
// на диск или в БД не сохраняется.
type AudioFile struct {
	// Filename — оригинальное имя файла
	Filename string
	// ContentType — заявленный MIME-тип
	ContentType string
	// Data — содержимое файла
	Data []byte
}

// TranscriptSegment — непрерывная реплика одного спикера.
// Последовательность сегментов сохраняет исходный временной порядок.
// Индекс спикера стабилен внутри одного файла, но НЕ согласован между
// файлами батча: каждый файл диаризуется независимо.
type TranscriptSegment struct {
	// Speaker — индекс спикера от сервиса распознавания (с нуля)
	Speaker int
	// Text — текст реплики
	Text string
}
