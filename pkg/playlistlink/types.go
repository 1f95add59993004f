// Package playlistlink turns free-form user input (a link, an embed snippet or pasted text) into
// the ordered track list of the playlist it references, across several unrelated providers.
package playlistlink

import (
	"context"
	"strings"
	"time"
)

// Provider identifies which backend a classified URL belongs to.
type Provider int

const (
	// ProviderUnresolved means no rule matched; nothing is fetched.
	ProviderUnresolved Provider = iota
	// ProviderYandex is Yandex Music, addressed by owner and playlist kind.
	ProviderYandex
	// ProviderSpotify is a Spotify-class streaming service, addressed by a bare playlist ID.
	ProviderSpotify
	// ProviderGeneric is the universal media extractor fallback, addressed by URL.
	ProviderGeneric
)

// String returns the provider name used in logs and metric labels.
func (p Provider) String() string {
	switch p {
	case ProviderYandex:
		return "yandex"
	case ProviderSpotify:
		return "spotify"
	case ProviderGeneric:
		return "generic"
	default:
		return "unresolved"
	}
}

// SentinelOwner is the owner value for Yandex links that carry no owner (/playlists/lk.*).
// Such selectors are recognized but can never be fetched. The playlist ID of these links
// keeps its "lk." prefix, which tells them apart from a real account named "lk".
const SentinelOwner = "lk"

const ownerlessIDPrefix = SentinelOwner + "."

// Selector is the tagged result of classification: the provider plus the identifiers its fetch needs.
type Selector struct {
	Provider   Provider
	Owner      string // Yandex only.
	PlaylistID string // Yandex and Spotify.
	URL        string // Generic only; query parameters preserved.
}

// Unresolved reports whether no provider was identified.
func (s Selector) Unresolved() bool {
	return s.Provider == ProviderUnresolved
}

// Insufficient reports whether the provider is known but the URL lacks the owner needed to fetch.
func (s Selector) Insufficient() bool {
	return s.Provider == ProviderYandex && s.Owner == SentinelOwner &&
		strings.HasPrefix(s.PlaylistID, ownerlessIDPrefix)
}

// RawTrack is a provider-native track reduced to declared optional fields.
// Empty strings and nil slices mean "absent".
type RawTrack struct {
	Provider      Provider
	ID            string
	Title         string
	Artists       []string
	CoverURI      string // Per-track cover; may be a provider template.
	AlbumCoverURI string // Album-level cover used when CoverURI is absent.
}

// TrackEntry is the normalized track returned to callers.
type TrackEntry struct {
	DisplayTitle string `json:"title"`
	ThumbnailURL string `json:"thumbnail"`
	ID           string `json:"id"`
	Position     int    `json:"index"`
}

// Fetcher retrieves the raw tracks of one provider's playlist.
// A nil element in the returned slice is a placeholder for an entry the backend could not describe.
type Fetcher interface {
	Fetch(ctx context.Context, sel Selector) ([]*RawTrack, error)
}

// Observer receives one report per resolution.
type Observer interface {
	ObserveResolution(provider, outcome string, duration time.Duration, tracks int)
}

type nopObserver struct{}

func (nopObserver) ObserveResolution(string, string, time.Duration, int) {}
