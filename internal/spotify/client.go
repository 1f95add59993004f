// Package spotify provides Spotify Web API access for reading playlist tracks with client credentials.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"tracklister/pkg/playlistlink"
)

// Sessions creates a fresh client-credentials session per playlist fetch.
type Sessions struct {
	logger   *zap.Logger
	tokenURL string
	baseURL  string
}

// Option configures Sessions.
type Option func(*Sessions)

// WithTokenURL overrides the OAuth token endpoint.
func WithTokenURL(tokenURL string) Option {
	return func(s *Sessions) {
		s.tokenURL = tokenURL
	}
}

// WithBaseURL overrides the Web API base URL. It must end with a slash.
func WithBaseURL(baseURL string) Option {
	return func(s *Sessions) {
		s.baseURL = baseURL
	}
}

// NewSessions creates a session factory.
func NewSessions(logger *zap.Logger, opts ...Option) *Sessions {
	s := &Sessions{
		logger:   logger,
		tokenURL: spotifyauth.TokenURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSession implements playlistlink.SessionFactory.
func (s *Sessions) NewSession(ctx context.Context, clientID, clientSecret string) (playlistlink.Session, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     s.tokenURL,
	}

	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to obtain spotify token: %w", playlistlink.ErrBackendUnavailable, err)
	}

	var clientOpts []spotify.ClientOption
	if s.baseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(s.baseURL))
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &Session{
		client: spotify.New(httpClient, clientOpts...),
		logger: s.logger,
	}, nil
}

// Session is one authenticated Spotify client.
type Session struct {
	client *spotify.Client
	logger *zap.Logger
}

// PlaylistPage implements playlistlink.Session.
func (s *Session) PlaylistPage(ctx context.Context, playlistID string, offset, limit int) (*playlistlink.Page, error) {
	items, err := s.client.GetPlaylistItems(ctx, spotify.ID(playlistID),
		spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		return nil, classifyError(err)
	}

	page := &playlistlink.Page{
		Items:       make([]*playlistlink.RawTrack, 0, len(items.Items)),
		HasNextPage: items.Next != "",
	}
	for i := range items.Items {
		// Episodes and unavailable items have no track and stay as nil placeholders.
		page.Items = append(page.Items, convertSpotifyTrack(items.Items[i].Track.Track))
	}

	s.logger.Debug("Retrieved playlist page",
		zap.String("playlistID", playlistID),
		zap.Int("offset", offset),
		zap.Int("count", len(page.Items)),
		zap.Int("total", int(items.Total)))

	return page, nil
}

func convertSpotifyTrack(track *spotify.FullTrack) *playlistlink.RawTrack {
	if track == nil {
		return nil
	}

	var artists []string
	for _, artist := range track.Artists {
		artists = append(artists, artist.Name)
	}

	raw := &playlistlink.RawTrack{
		Provider: playlistlink.ProviderSpotify,
		ID:       string(track.ID),
		Title:    track.Name,
		Artists:  artists,
	}
	// Spotify has no per-track artwork; the first album image is the largest.
	if len(track.Album.Images) > 0 {
		raw.AlbumCoverURI = track.Album.Images[0].URL
	}
	return raw
}

// classifyError maps Web API errors onto the resolution taxonomy.
func classifyError(err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusNotFound {
			return fmt.Errorf("%w: %s", playlistlink.ErrPlaylistNotFound, apiErr.Message)
		}
		return fmt.Errorf("%w: spotify returned status %d: %s", playlistlink.ErrBackendUnavailable, apiErr.Status, apiErr.Message)
	}

	// The client does not always surface typed errors.
	errStr := err.Error()
	if strings.Contains(errStr, "404") || strings.Contains(errStr, "Not found") {
		return fmt.Errorf("%w: %w", playlistlink.ErrPlaylistNotFound, err)
	}
	return fmt.Errorf("%w: %w", playlistlink.ErrBackendUnavailable, err)
}
