// labeling.go — разбор ответа модели и замена меток спикеров.
package gemini

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// codeFenceRE убирает обёртку ```json ... ``` вокруг ответа модели.
var codeFenceRE = regexp.MustCompile("```json\n?|\n?```")

// applySpeakerMap разбирает ответ модели как JSON-маппинг
// {"Speaker 1": "Интервьюер", ...} и заменяет каждое вхождение
// "<метка>:" на "<замена>:" по всему тексту.
//
// Замена — глобальная текстовая подстановка, не семантическое
// переразмечивание: если замена сама содержит "Speaker N", последующие
// подстановки могут зацепить уже заменённый текст. Поведение намеренно
// повторяет исходное.
//
// Любая ошибка разбора — не ошибка шага: возвращается исходный текст.
func applySpeakerMap(transcription, raw string) string {
	cleaned := strings.TrimSpace(codeFenceRE.ReplaceAllString(raw, ""))

	var speakerMap map[string]string
	if err := json.Unmarshal([]byte(cleaned), &speakerMap); err != nil {
		return transcription
	}

	// Детерминированный порядок подстановок
	labels := make([]string, 0, len(speakerMap))
	for label := range speakerMap {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	updated := transcription
	for _, label := range labels {
		updated = strings.ReplaceAll(updated, label+":", speakerMap[label]+":")
	}

	return updated
}
