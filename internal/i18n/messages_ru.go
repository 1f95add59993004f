package i18n

// russianMessages contains all Russian translations.
var russianMessages = map[string]string{
	// Page
	"page.title":       "Просмотр плейлиста",
	"form.label":       "Ссылка на плейлист или код вставки",
	"form.placeholder": "https://music.yandex.ru/users/USER/playlists/ID",
	"form.submit":      "Показать треки",

	// Table
	"table.position": "№",
	"table.cover":    "Обложка",
	"table.title":    "Трек",
	"table.id":       "ID",
	"table.count":    "Треков: %d",

	// Errors
	"error.empty_input":    "Введите ссылку на плейлист",
	"error.resolve_failed": "Не удалось загрузить плейлист. Проверьте:",
	"error.bad_request":    "Некорректный запрос",

	// Hints shown with a failed resolution
	"hint.availability":   "доступность плейлиста",
	"hint.link":           "правильность ссылки",
	"hint.private":        "для приватных плейлистов требуется авторизация",
	"hint.formats":        "Поддерживаемые форматы:",
	"hint.format_users":   "https://music.yandex.ru/users/USER/playlists/ID",
	"hint.format_iframe":  "https://music.yandex.ru/iframe/playlist/USER/ID",
	"hint.format_spotify": "https://open.spotify.com/playlist/ID",
	"hint.format_embed":   "или вставьте iframe-код (приложение само вытащит ссылку)",
	"hint.format_generic": "ссылки на другие сайты, поддерживаемые yt-dlp",
	"hint.lk":             "Если у вас ссылка вида /playlists/lk.…, вставьте iframe-код плейлиста (как в «Поделиться»).",

	// CLI
	"cli.no_result": "По этому вводу треки не найдены",
}
