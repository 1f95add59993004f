package playlistlink

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// UntitledTrack replaces an absent track title.
	UntitledTrack = "Untitled"
	// UnknownArtist replaces an absent artist list.
	UnknownArtist = "Unknown artist"
	// DefaultCoverSize is the resolution token substituted into Yandex cover templates.
	DefaultCoverSize = "400x400"

	yandexCoverPlaceholder = "%%"
	artistSeparator        = ", "
)

// Normalizer maps raw provider tracks onto TrackEntry.
type Normalizer struct {
	coverSize string
}

// NewNormalizer creates a normalizer; an empty coverSize selects DefaultCoverSize.
func NewNormalizer(coverSize string) *Normalizer {
	if coverSize == "" {
		coverSize = DefaultCoverSize
	}
	return &Normalizer{coverSize: coverSize}
}

// Normalize converts one raw track. Position is left zero; the engine assigns it.
func (n *Normalizer) Normalize(raw *RawTrack) (entry TrackEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTrackUnavailable, r)
		}
	}()

	if raw == nil {
		return TrackEntry{}, fmt.Errorf("%w: missing track object", ErrTrackUnavailable)
	}
	if strings.TrimSpace(raw.ID) == "" {
		return TrackEntry{}, fmt.Errorf("%w: missing track id", ErrTrackUnavailable)
	}

	title := cleanText(raw.Title)
	if title == "" {
		title = UntitledTrack
	}

	artists := make([]string, 0, len(raw.Artists))
	for _, a := range raw.Artists {
		if a = cleanText(a); a != "" {
			artists = append(artists, a)
		}
	}
	artist := UnknownArtist
	if len(artists) > 0 {
		artist = strings.Join(artists, artistSeparator)
	}

	return TrackEntry{
		DisplayTitle: title + " - " + artist,
		ThumbnailURL: n.thumbnail(raw),
		ID:           raw.ID,
	}, nil
}

// NormalizeAll converts every raw track in order, skipping the ones that fail. onSkip, when set,
// is called with the 1-based backend index and the error of each skipped track.
func (n *Normalizer) NormalizeAll(raws []*RawTrack, onSkip func(index int, err error)) []TrackEntry {
	entries := make([]TrackEntry, 0, len(raws))
	for i, raw := range raws {
		entry, err := n.Normalize(raw)
		if err != nil {
			if onSkip != nil {
				onSkip(i+1, err)
			}
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// thumbnail prefers the per-track cover and falls back to the album cover.
func (n *Normalizer) thumbnail(raw *RawTrack) string {
	cover := strings.TrimSpace(raw.CoverURI)
	if cover == "" {
		cover = strings.TrimSpace(raw.AlbumCoverURI)
	}
	if cover == "" {
		return ""
	}

	if raw.Provider == ProviderYandex {
		return n.expandYandexCover(cover)
	}
	return cover
}

// expandYandexCover turns "avatars.yandex.net/get-music-content/x/y/%%" into an absolute URL.
func (n *Normalizer) expandYandexCover(cover string) string {
	cover = strings.ReplaceAll(cover, yandexCoverPlaceholder, n.coverSize)
	if hasScheme(cover) {
		return cover
	}
	return "https://" + strings.TrimPrefix(cover, "//")
}

func cleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
