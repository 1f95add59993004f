package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Page
	"page.title":       "Playlist viewer",
	"form.label":       "Playlist link or embed code",
	"form.placeholder": "https://music.yandex.ru/users/USER/playlists/ID",
	"form.submit":      "Show tracks",

	// Table
	"table.position": "#",
	"table.cover":    "Cover",
	"table.title":    "Track",
	"table.id":       "ID",
	"table.count":    "Tracks: %d",

	// Errors
	"error.empty_input":    "Enter a playlist link",
	"error.resolve_failed": "Could not load the playlist. Please check:",
	"error.bad_request":    "Malformed request",

	// Hints shown with a failed resolution
	"hint.availability":   "the playlist is available",
	"hint.link":           "the link is correct",
	"hint.private":        "private playlists require authorization",
	"hint.formats":        "Supported formats:",
	"hint.format_users":   "https://music.yandex.ru/users/USER/playlists/ID",
	"hint.format_iframe":  "https://music.yandex.ru/iframe/playlist/USER/ID",
	"hint.format_spotify": "https://open.spotify.com/playlist/ID",
	"hint.format_embed":   "or paste the iframe embed code (the link is extracted automatically)",
	"hint.format_generic": "links to other sites supported by yt-dlp",
	"hint.lk":             "If your link looks like /playlists/lk.… paste the playlist's iframe code (from \"Share\").",

	// CLI
	"cli.no_result": "No tracks found for the given input",
}
