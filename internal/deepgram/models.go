// models.go — структуры ответа Deepgram prerecorded API.
package deepgram

// transcriptionResponse — ответ POST /v1/listen.
type transcriptionResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []alternative `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// alternative — один вариант распознавания канала.
type alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words"`
}

// firstAlternative возвращает первый вариант первого канала или nil.
func (r *transcriptionResponse) firstAlternative() *alternative {
	if len(r.Results.Channels) == 0 || len(r.Results.Channels[0].Alternatives) == 0 {
		return nil
	}
	return &r.Results.Channels[0].Alternatives[0]
}

// Word — одно распознанное слово с таймстемпами и тегом спикера.
type Word struct {
	Word           string  `json:"word"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	Confidence     float64 `json:"confidence"`
	PunctuatedWord string  `json:"punctuated_word"`
	// Speaker — индекс спикера (с нуля); nil, если диаризация
	// не вернула тег для слова.
	Speaker *int `json:"speaker"`
}

// SpeakerIndex возвращает индекс спикера; слова без тега относятся к нулевому.
func (w Word) SpeakerIndex() int {
	if w.Speaker == nil {
		return 0
	}
	return *w.Speaker
}

// Text возвращает пунктуированную форму слова, если она есть.
func (w Word) Text() string {
	if w.PunctuatedWord != "" {
		return w.PunctuatedWord
	}
	return w.Word
}
