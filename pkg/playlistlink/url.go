package playlistlink

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// embeddedURLRegex finds a link inside markup or prose. Quotes and angle brackets end the match
// so that the src attribute of an <iframe> is extracted cleanly.
var embeddedURLRegex = regexp.MustCompile(`(?i)https?://[^\s"'<>]+`)

// RecoverURL extracts the candidate URL from raw user input.
// Input that already starts with a scheme is taken as is; otherwise the first embedded link wins,
// and when there is none the trimmed text itself is returned so that classification fails cleanly.
// The boolean is false only for empty input.
func RecoverURL(input string) (string, bool) {
	text := strings.TrimSpace(norm.NFKC.String(input))
	if text == "" {
		return "", false
	}

	if hasScheme(text) {
		return text, true
	}

	if match := embeddedURLRegex.FindString(text); match != "" {
		return match, true
	}

	return text, true
}

func hasScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// CanonicalizeForMatch drops the query string and fragment so that tracking parameters
// do not break pattern matches.
func CanonicalizeForMatch(rawURL string) string {
	return canonicalize(rawURL, false)
}

// CanonicalizeForFetch drops only the fragment. Backends that encode pagination or playlist
// tokens in the query string receive this form.
func CanonicalizeForFetch(rawURL string) string {
	return canonicalize(rawURL, true)
}

func canonicalize(rawURL string, keepQuery bool) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		// Not an absolute URL: strip textually so the value is never re-escaped.
		rawURL, _, _ = strings.Cut(rawURL, "#")
		if !keepQuery {
			rawURL, _, _ = strings.Cut(rawURL, "?")
		}
		return rawURL
	}

	if !keepQuery {
		u.RawQuery = ""
		u.ForceQuery = false
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
