// Пакет static — встроенные статические ресурсы веб-интерфейса Intervox.
// Содержит HTML-страницы (логин, загрузка), CSS и JS.
// Файлы встраиваются в бинарник через //go:embed и раздаются через HTTP.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

// content — встроенная файловая система со всеми статическими ресурсами.
//
//go:embed index.html upload.html css/*.css js/*.js
var content embed.FS

// FileSystem возвращает http.FileSystem для раздачи ассетов.
// Файлы доступны по путям вида /css/style.css, /js/upload.js.
func FileSystem() http.FileSystem {
	return http.FS(content)
}

// FS возвращает fs.FS для прямого доступа к встроенным файлам.
func FS() fs.FS {
	return content
}

// Page возвращает содержимое HTML-страницы по имени файла.
func Page(name string) ([]byte, error) {
	return content.ReadFile(name)
}
