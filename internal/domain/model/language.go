// Пакет model — доменные типы Intervox.
// language.go — селектор языка интервью.
package model

// Language — код языка интервью. Управляет языковой моделью Deepgram
// и естественным языком ответов Gemini.
type Language string

// Поддерживаемые языки.
const (
	LanguageEN Language = "en"
	LanguageRU Language = "ru"
)

// DefaultLanguage — язык по умолчанию для неизвестных кодов.
const DefaultLanguage = LanguageEN

// ParseLanguage преобразует код языка в Language.
// Неизвестные коды (включая пустую строку) возвращают DefaultLanguage.
func ParseLanguage(code string) Language {
	switch Language(code) {
	case LanguageEN, LanguageRU:
		return Language(code)
	default:
		return DefaultLanguage
	}
}

// Name возвращает название языка на английском — используется
// в промптах Gemini ("respond in Russian").
func (l Language) Name() string {
	switch l {
	case LanguageRU:
		return "Russian"
	default:
		return "English"
	}
}

// Code возвращает строковый код языка для параметров Deepgram.
func (l Language) Code() string {
	return string(l)
}
