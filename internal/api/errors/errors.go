// Пакет errors — конструкторы стандартных ошибок API Intervox.
// Единый формат: {"success": false, "error": "..."}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors

import (
	"encoding/json"
	"net/http"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteError записывает ответ ошибки в стандартном формате Intervox.
// statusCode — HTTP статус-код, message — описание для клиента.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Success: false,
		Error:   message,
	})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// Unauthorized — 401 требуется аутентификация.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// InternalError — 500 внутренняя ошибка или сбой внешнего сервиса.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
