package gemini

import (
	"strings"
	"testing"
)

const sampleTranscript = "Speaker 1: Привет, расскажи о себе.\n\nSpeaker 2: Меня зовут Александр."

func TestApplySpeakerMap_PlainJSON(t *testing.T) {
	raw := `{"Speaker 1": "Интервьюер", "Speaker 2": "Александр (герой)"}`

	got := applySpeakerMap(sampleTranscript, raw)
	want := "Интервьюер: Привет, расскажи о себе.\n\nАлександр (герой): Меня зовут Александр."
	if got != want {
		t.Errorf("applySpeakerMap = %q, ожидается %q", got, want)
	}
}

func TestApplySpeakerMap_CodeFencedJSON(t *testing.T) {
	raw := "```json\n{\"Speaker 1\": \"Interviewer\", \"Speaker 2\": \"John (Hero)\"}\n```"

	got := applySpeakerMap("Speaker 1: hi\n\nSpeaker 2: hello", raw)
	want := "Interviewer: hi\n\nJohn (Hero): hello"
	if got != want {
		t.Errorf("applySpeakerMap = %q, ожидается %q", got, want)
	}
}

func TestApplySpeakerMap_UnparsableReturnsOriginal(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"не JSON", "I could not identify the speakers, sorry."},
		{"обрезанный JSON", `{"Speaker 1": "Interv`},
		{"JSON-массив", `["Speaker 1", "Speaker 2"]`},
		{"вложенные значения", `{"Speaker 1": {"role": "Interviewer"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := applySpeakerMap(sampleTranscript, tc.raw)
			// Неразбираемый ответ — транскрипт возвращается байт-в-байт
			if got != sampleTranscript {
				t.Errorf("applySpeakerMap изменил текст: %q", got)
			}
		})
	}
}

func TestApplySpeakerMap_OnlyLabelWithColonReplaced(t *testing.T) {
	transcript := "Speaker 1: as I told Speaker 2 yesterday.\n\nSpeaker 2: right."
	raw := `{"Speaker 1": "Anna", "Speaker 2": "Boris"}`

	got := applySpeakerMap(transcript, raw)
	// Упоминание "Speaker 2" без двоеточия не затрагивается
	want := "Anna: as I told Speaker 2 yesterday.\n\nBoris: right."
	if got != want {
		t.Errorf("applySpeakerMap = %q, ожидается %q", got, want)
	}
}

func TestSpeakerPrompt_ContainsLanguageAndTranscript(t *testing.T) {
	p := speakerPrompt("Speaker 1: hi", "Russian")
	for _, substr := range []string{"Russian", "Speaker 1: hi", "JSON"} {
		if !strings.Contains(p, substr) {
			t.Errorf("промпт не содержит %q", substr)
		}
	}
}

func TestSummaryPrompt_ContainsLanguageAndTranscript(t *testing.T) {
	p := summaryPrompt("Speaker 1: hi", "English")
	for _, substr := range []string{"English", "Speaker 1: hi", "Key topics"} {
		if !strings.Contains(p, substr) {
			t.Errorf("промпт не содержит %q", substr)
		}
	}
}
