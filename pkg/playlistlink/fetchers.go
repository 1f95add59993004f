package playlistlink

import (
	"context"
	"errors"
	"fmt"
)

// DefaultPageSize is the page size requested from paginated backends.
const DefaultPageSize = 100

// YandexBackend is the Yandex Music metadata client contract.
// It returns ErrPlaylistNotFound for unknown playlists and ErrBackendUnavailable for transport errors.
type YandexBackend interface {
	UserPlaylist(ctx context.Context, owner, playlistID string) ([]*RawTrack, error)
}

// YandexFetcher fetches playlists addressed by owner and playlist kind.
type YandexFetcher struct {
	backend YandexBackend
}

// NewYandexFetcher creates a Yandex fetcher.
func NewYandexFetcher(backend YandexBackend) *YandexFetcher {
	return &YandexFetcher{backend: backend}
}

// Fetch implements Fetcher.
func (f *YandexFetcher) Fetch(ctx context.Context, sel Selector) ([]*RawTrack, error) {
	if sel.Provider != ProviderYandex {
		return nil, fmt.Errorf("yandex fetcher cannot handle %s selector", sel.Provider)
	}
	if sel.Insufficient() {
		return nil, fmt.Errorf("%w: %s", ErrInsufficientIdentifiers, sel.PlaylistID)
	}
	if sel.Owner == "" || sel.PlaylistID == "" {
		return nil, ErrUnrecognizedURL
	}

	tracks, err := f.backend.UserPlaylist(ctx, sel.Owner, sel.PlaylistID)
	if err != nil {
		return nil, wrapBackend(fmt.Sprintf("yandex playlist %s/%s", sel.Owner, sel.PlaylistID), err)
	}
	return tracks, nil
}

// Page is one page of a paginated playlist listing.
type Page struct {
	Items       []*RawTrack
	HasNextPage bool
}

// Session is an authenticated Spotify-class backend session.
type Session interface {
	PlaylistPage(ctx context.Context, playlistID string, offset, limit int) (*Page, error)
}

// SessionFactory creates backend sessions from client credentials.
type SessionFactory interface {
	NewSession(ctx context.Context, clientID, clientSecret string) (Session, error)
}

// SpotifyFetcher fetches playlists addressed by a bare ID, following pagination to the end.
type SpotifyFetcher struct {
	sessions     SessionFactory
	clientID     string
	clientSecret string
	pageSize     int
}

// NewSpotifyFetcher creates a Spotify-class fetcher. A pageSize below 1 selects DefaultPageSize.
func NewSpotifyFetcher(sessions SessionFactory, clientID, clientSecret string, pageSize int) *SpotifyFetcher {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &SpotifyFetcher{
		sessions:     sessions,
		clientID:     clientID,
		clientSecret: clientSecret,
		pageSize:     pageSize,
	}
}

// Fetch implements Fetcher. Pages are requested strictly in sequence; a session is created per call.
func (f *SpotifyFetcher) Fetch(ctx context.Context, sel Selector) ([]*RawTrack, error) {
	if sel.Provider != ProviderSpotify {
		return nil, fmt.Errorf("spotify fetcher cannot handle %s selector", sel.Provider)
	}
	if f.clientID == "" || f.clientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client credentials are not configured", ErrBackendUnavailable)
	}

	session, err := f.sessions.NewSession(ctx, f.clientID, f.clientSecret)
	if err != nil {
		return nil, wrapBackend("spotify session", err)
	}

	var tracks []*RawTrack
	offset := 0
	for {
		page, err := session.PlaylistPage(ctx, sel.PlaylistID, offset, f.pageSize)
		if err != nil {
			return nil, wrapBackend(fmt.Sprintf("spotify playlist %s page at offset %d", sel.PlaylistID, offset), err)
		}

		tracks = append(tracks, page.Items...)

		if !page.HasNextPage || len(page.Items) == 0 {
			break
		}
		offset += f.pageSize
	}

	return tracks, nil
}

// Extractor is the universal media extractor contract. It returns the entries of a collection,
// or a single entry when the URL points at one media item.
type Extractor interface {
	Extract(ctx context.Context, url string) ([]*RawTrack, error)
}

// GenericFetcher delegates to the universal media extractor.
type GenericFetcher struct {
	extractor Extractor
}

// NewGenericFetcher creates the fallback-tier fetcher.
func NewGenericFetcher(extractor Extractor) *GenericFetcher {
	return &GenericFetcher{extractor: extractor}
}

// Fetch implements Fetcher. Failure yields no partial data.
func (f *GenericFetcher) Fetch(ctx context.Context, sel Selector) ([]*RawTrack, error) {
	if sel.Provider != ProviderGeneric {
		return nil, fmt.Errorf("generic fetcher cannot handle %s selector", sel.Provider)
	}

	tracks, err := f.extractor.Extract(ctx, sel.URL)
	if err != nil {
		return nil, wrapBackend("extract "+sel.URL, err)
	}
	return tracks, nil
}

// wrapBackend keeps taxonomy errors as they are and classifies anything else as unavailability.
func wrapBackend(op string, err error) error {
	if errors.Is(err, ErrPlaylistNotFound) || errors.Is(err, ErrBackendUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrBackendUnavailable, err)
}
