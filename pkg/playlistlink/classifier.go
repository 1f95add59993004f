package playlistlink

import (
	"net/url"
	"regexp"
	"strings"
)

// yandexHost is matched case-insensitively together with the scheme.
const yandexHost = `music\.yandex\.(?:ru|com|by|kz)`

// rule is one entry of the ordered classification table.
type rule struct {
	name    string
	pattern *regexp.Regexp
	extract func(matchURL string, groups []string) Selector
}

var (
	spotifyPlaylistRegex = regexp.MustCompile(
		`^(?i:https?://open\.spotify\.com)/(?:intl-[a-z]{2}/)?(?:embed/)?playlist/([A-Za-z0-9]+)/?$`)
	yandexUserPlaylistRegex = regexp.MustCompile(
		`^(?i:https?://` + yandexHost + `)/users/([^/]+)/playlists/([^/]+)/?$`)
	yandexIframePlaylistRegex = regexp.MustCompile(
		`^(?i:https?://` + yandexHost + `)/iframe/playlist/([^/]+)/([^/]+)/?$`)
	yandexOwnerlessPlaylistRegex = regexp.MustCompile(
		`^(?i:https?://` + yandexHost + `)/playlists/(lk\.[^/]+)/?$`)
)

// providerRules lists the provider-specific shapes. They are mutually exclusive by host and path,
// but are always tested in this order.
var providerRules = []rule{
	{
		name:    "spotify_playlist",
		pattern: spotifyPlaylistRegex,
		extract: func(_ string, g []string) Selector {
			return Selector{Provider: ProviderSpotify, PlaylistID: g[1]}
		},
	},
	{
		name:    "yandex_user_playlist",
		pattern: yandexUserPlaylistRegex,
		extract: yandexSelector,
	},
	{
		name:    "yandex_iframe_playlist",
		pattern: yandexIframePlaylistRegex,
		extract: yandexSelector,
	},
	{
		name:    "yandex_ownerless_playlist",
		pattern: yandexOwnerlessPlaylistRegex,
		extract: func(_ string, g []string) Selector {
			return Selector{Provider: ProviderYandex, Owner: SentinelOwner, PlaylistID: g[1]}
		},
	},
}

// genericRule is the fallback tier: any absolute http(s) URL goes to the universal extractor.
var genericRule = rule{
	name:    "generic",
	pattern: regexp.MustCompile(`^(?i)https?://[^/\s]+`),
	extract: func(matchURL string, _ []string) Selector {
		return Selector{Provider: ProviderGeneric, URL: matchURL}
	},
}

func yandexSelector(_ string, g []string) Selector {
	return Selector{Provider: ProviderYandex, Owner: unescapeSegment(g[1]), PlaylistID: unescapeSegment(g[2])}
}

func unescapeSegment(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

// Classifier matches match-canonical URLs against an ordered rule table; the first match wins.
type Classifier struct {
	rules []rule
}

// NewClassifier builds the classifier. With generic enabled, URLs no provider rule recognizes are
// handed to the universal extractor instead of being reported unresolved.
func NewClassifier(generic bool) *Classifier {
	rules := make([]rule, 0, len(providerRules)+1)
	rules = append(rules, providerRules...)
	if generic {
		rules = append(rules, genericRule)
	}
	return &Classifier{rules: rules}
}

// Classify returns the selector for a match-canonical URL, or an unresolved selector.
func (c *Classifier) Classify(matchURL string) Selector {
	matchURL = strings.TrimSpace(matchURL)
	for _, r := range c.rules {
		if groups := r.pattern.FindStringSubmatch(matchURL); groups != nil {
			return r.extract(matchURL, groups)
		}
	}
	return Selector{Provider: ProviderUnresolved}
}

// CanClassify reports whether any rule recognizes the URL.
func (c *Classifier) CanClassify(matchURL string) bool {
	return !c.Classify(matchURL).Unresolved()
}
