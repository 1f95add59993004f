// Package yandex provides a minimal Yandex Music API client for reading user playlists.
package yandex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"tracklister/internal/core"
	"tracklister/pkg/playlistlink"
)

const (
	// DefaultBaseURL is the public Yandex Music API endpoint.
	DefaultBaseURL = "https://api.music.yandex.net"
	// defaultHTTPTimeout bounds a single API request.
	defaultHTTPTimeout = 30 * time.Second
	// maxResponseSize caps the decoded response body.
	maxResponseSize = 32 << 20
	// clientHeader identifies the client flavour the API expects.
	clientHeader = "YandexMusicAndroid/24023621"
)

// Client reads playlists from the Yandex Music API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a client. The token is optional; public playlists are readable anonymously.
func NewClient(config *core.YandexConfig, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: baseURL,
		token:   config.Token,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
		logger:  logger,
	}
}

// UserPlaylist fetches a playlist by owner login (or uid) and playlist kind.
// The result holds one element per playlist entry; entries without an embedded track are nil.
func (c *Client) UserPlaylist(ctx context.Context, owner, kind string) ([]*playlistlink.RawTrack, error) {
	endpoint := fmt.Sprintf("%s/users/%s/playlists/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(kind))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Yandex-Music-Client", clientHeader)
	if c.token != "" {
		req.Header.Set("Authorization", "OAuth "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", playlistlink.ErrBackendUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", playlistlink.ErrBackendUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", playlistlink.ErrPlaylistNotFound, apiErrorName(body))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: yandex returned status %d (%s)",
			playlistlink.ErrBackendUnavailable, resp.StatusCode, apiErrorName(body))
	}

	var envelope playlistResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: failed to decode playlist: %w", playlistlink.ErrBackendUnavailable, err)
	}
	if envelope.Result == nil {
		return nil, playlistlink.ErrPlaylistNotFound
	}

	c.logger.Debug("Fetched Yandex playlist",
		zap.String("owner", owner),
		zap.String("kind", kind),
		zap.String("title", envelope.Result.Title),
		zap.Int("entries", len(envelope.Result.Tracks)))

	tracks := make([]*playlistlink.RawTrack, 0, len(envelope.Result.Tracks))
	for i := range envelope.Result.Tracks {
		tracks = append(tracks, envelope.Result.Tracks[i].toRaw())
	}
	return tracks, nil
}

func apiErrorName(body []byte) string {
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Name == "" {
		return strings.TrimSpace(string(body[:min(len(body), 128)]))
	}
	return envelope.Error.Name
}
