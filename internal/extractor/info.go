package extractor

import (
	"strings"

	"tracklister/pkg/playlistlink"
)

// Info is the subset of yt-dlp's info dictionary used for track listings.
// It describes either a playlist (Type "playlist", Entries set) or a single media item.
type Info struct {
	Type       string      `json:"_type"`
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Track      string      `json:"track"`
	Artist     string      `json:"artist"`
	Artists    []string    `json:"artists"`
	Creator    string      `json:"creator"`
	Uploader   string      `json:"uploader"`
	Channel    string      `json:"channel"`
	URL        string      `json:"url"`
	WebpageURL string      `json:"webpage_url"`
	Thumbnail  string      `json:"thumbnail"`
	Thumbnails []Thumbnail `json:"thumbnails"`
	Album      string      `json:"album"`
	Entries    []*Info     `json:"entries"`
}

// Thumbnail is one entry of yt-dlp's thumbnail list, ordered worst to best.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// IsCollection reports whether the info describes a playlist-like collection.
func (i *Info) IsCollection() bool {
	return i.Type == "playlist" || i.Type == "multi_video" || i.Entries != nil
}

// RawTracks flattens the info into raw tracks. Entries yt-dlp could not describe are nil.
func (i *Info) RawTracks() []*playlistlink.RawTrack {
	if !i.IsCollection() {
		return []*playlistlink.RawTrack{i.rawTrack()}
	}

	tracks := make([]*playlistlink.RawTrack, 0, len(i.Entries))
	for _, entry := range i.Entries {
		if entry == nil {
			tracks = append(tracks, nil)
			continue
		}
		tracks = append(tracks, entry.rawTrack())
	}
	return tracks
}

func (i *Info) rawTrack() *playlistlink.RawTrack {
	id := i.ID
	if id == "" {
		id = firstNonEmpty(i.WebpageURL, i.URL)
	}

	return &playlistlink.RawTrack{
		Provider: playlistlink.ProviderGeneric,
		ID:       id,
		Title:    firstNonEmpty(i.Track, i.Title),
		Artists:  i.artists(),
		CoverURI: i.bestThumbnail(),
	}
}

func (i *Info) artists() []string {
	if len(i.Artists) > 0 {
		return i.Artists
	}
	if a := firstNonEmpty(i.Artist, i.Creator, i.Uploader, i.Channel); a != "" {
		return []string{a}
	}
	return nil
}

func (i *Info) bestThumbnail() string {
	if i.Thumbnail != "" {
		return i.Thumbnail
	}
	for j := len(i.Thumbnails) - 1; j >= 0; j-- {
		if i.Thumbnails[j].URL != "" {
			return i.Thumbnails[j].URL
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
