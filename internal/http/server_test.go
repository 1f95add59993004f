package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"tracklister/internal/core"
	"tracklister/internal/i18n"
	"tracklister/pkg/playlistlink"
)

// fakeResolver returns canned results and records the inputs it saw.
type fakeResolver struct {
	tracks []playlistlink.TrackEntry
	err    error
	inputs []string
}

func (f *fakeResolver) Diagnose(_ context.Context, input string) ([]playlistlink.TrackEntry, error) {
	f.inputs = append(f.inputs, input)
	if strings.TrimSpace(input) == "" {
		return nil, playlistlink.ErrEmptyInput
	}
	return f.tracks, f.err
}

var allProviders = Providers{Spotify: true, Generic: true}

func newTestHandlers(resolver Resolver, lang string) *handlers {
	return newHandlers(resolver, NewMetrics(), i18n.NewLocalizer(lang), allProviders, zap.NewNop())
}

var sampleTracks = []playlistlink.TrackEntry{
	{DisplayTitle: "Artist A - Song A", ThumbnailURL: "https://img/a.jpg", ID: "t1", Position: 1},
	{DisplayTitle: "Artist B - Song B", ID: "t2", Position: 2},
}

func TestCreateHTTPServer(t *testing.T) {
	config := &core.ServerConfig{
		Host:         "0.0.0.0",
		Port:         9090,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	mux := http.NewServeMux()
	server := createHTTPServer(config, mux)

	expectedAddr := "0.0.0.0:9090"
	if server.Addr != expectedAddr {
		t.Errorf("createHTTPServer() Addr = %q, expected %q", server.Addr, expectedAddr)
	}

	if server.Handler != mux {
		t.Errorf("createHTTPServer() Handler mismatch")
	}

	if server.ReadTimeout != config.ReadTimeout {
		t.Errorf("createHTTPServer() ReadTimeout = %v, expected %v", server.ReadTimeout, config.ReadTimeout)
	}

	if server.WriteTimeout != config.WriteTimeout {
		t.Errorf("createHTTPServer() WriteTimeout = %v, expected %v", server.WriteTimeout, config.WriteTimeout)
	}
}

func TestStatusEndpoints(t *testing.T) {
	h := newTestHandlers(&fakeResolver{}, i18n.DefaultLanguage)
	server := httptest.NewServer(setupRoutes(h))
	defer server.Close()

	tests := []struct {
		path string
		body string
	}{
		{"/healthz", `{"status":"ok","service":"tracklister"}`},
		{"/readyz", `{"status":"ready","service":"tracklister"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, _ := http.NewRequestWithContext(context.Background(), "GET", server.URL+tt.path, http.NoBody)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Failed to call %s: %v", tt.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Errorf("%s returned status %d, expected %d", tt.path, resp.StatusCode, http.StatusOK)
			}
			if contentType := resp.Header.Get("Content-Type"); contentType != "application/json" {
				t.Errorf("%s Content-Type = %q, expected application/json", tt.path, contentType)
			}
			body, _ := io.ReadAll(resp.Body)
			if string(body) != tt.body {
				t.Errorf("Expected body %q, got %q", tt.body, string(body))
			}
		})
	}

	if got := testutil.ToFloat64(h.metrics.RequestsTotal.WithLabelValues("healthz", "200")); got != 1 {
		t.Errorf("Expected 1 healthz request recorded, got %v", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandlers(&fakeResolver{}, i18n.DefaultLanguage)
	h.metrics.ObserveResolution("yandex", "ok", 150*time.Millisecond, 2)

	rec := httptest.NewRecorder()
	setupRoutes(h).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics returned status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`tracklister_resolutions_total{outcome="ok",provider="yandex"} 1`,
		"tracklister_resolution_duration_seconds",
		"tracklister_tracks_returned",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected /metrics to contain %q", want)
		}
	}
}

func TestHomeGet(t *testing.T) {
	h := newTestHandlers(&fakeResolver{}, i18n.DefaultLanguage)

	rec := httptest.NewRecorder()
	setupRoutes(h).ServeHTTP(rec, httptest.NewRequest("GET", "/", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if contentType := rec.Header().Get("Content-Type"); contentType != "text/html; charset=utf-8" {
		t.Errorf("Expected Content-Type text/html, got %q", contentType)
	}

	body := rec.Body.String()
	for _, element := range []string{
		"<!DOCTYPE html>",
		"<title>Playlist viewer</title>",
		`name="playlist_url"`,
		"Show tracks",
	} {
		if !strings.Contains(body, element) {
			t.Errorf("Expected body to contain %q", element)
		}
	}
	if strings.Contains(body, "<table>") {
		t.Error("GET should not render a result table")
	}
}

func postForm(h *handlers, input string) *httptest.ResponseRecorder {
	form := url.Values{formField: {input}}
	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	setupRoutes(h).ServeHTTP(rec, req)
	return rec
}

func TestHomePost(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		resolver *fakeResolver
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "empty input",
			lang:     i18n.DefaultLanguage,
			resolver: &fakeResolver{},
			input:    "   ",
			contains: []string{"Enter a playlist link"},
			excludes: []string{"Supported formats:", "<table>"},
		},
		{
			name:     "empty input in russian",
			lang:     i18n.Russian,
			resolver: &fakeResolver{},
			input:    "",
			contains: []string{"Введите ссылку на плейлист"},
		},
		{
			name:     "resolution failure lists formats",
			lang:     i18n.DefaultLanguage,
			resolver: &fakeResolver{err: playlistlink.ErrUnrecognizedURL},
			input:    "https://example.com/x",
			contains: []string{
				"Could not load the playlist",
				"Supported formats:",
				"https://open.spotify.com/playlist/ID",
				"/playlists/lk.",
			},
			excludes: []string{"<table>"},
		},
		{
			name:     "success renders ordered table",
			lang:     i18n.DefaultLanguage,
			resolver: &fakeResolver{tracks: sampleTracks},
			input:    "https://music.yandex.ru/users/u/playlists/3",
			contains: []string{
				"Tracks: 2",
				"<td>1</td>",
				"<td>Artist A - Song A</td>",
				`<img src="https://img/a.jpg"`,
				"<td>t2</td>",
			},
			excludes: []string{"Could not load the playlist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(newTestHandlers(tt.resolver, tt.lang), tt.input)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", rec.Code)
			}

			body := rec.Body.String()
			for _, want := range tt.contains {
				if !strings.Contains(body, want) {
					t.Errorf("Expected body to contain %q", want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(body, unwanted) {
					t.Errorf("Expected body not to contain %q", unwanted)
				}
			}
			if len(tt.resolver.inputs) != 1 || tt.resolver.inputs[0] != tt.input {
				t.Errorf("Expected resolver to receive %q, got %v", tt.input, tt.resolver.inputs)
			}
		})
	}
}

func TestHomePostHintsFollowProviders(t *testing.T) {
	spotifyHint := "https://open.spotify.com/playlist/ID"
	genericHint := "links to other sites supported by yt-dlp"

	tests := []struct {
		name      string
		providers Providers
		contains  []string
		excludes  []string
	}{
		{
			name:      "all providers",
			providers: allProviders,
			contains:  []string{spotifyHint, genericHint},
		},
		{
			name:      "extractor disabled",
			providers: Providers{Spotify: true},
			contains:  []string{spotifyHint},
			excludes:  []string{genericHint},
		},
		{
			name:      "yandex only",
			providers: Providers{},
			contains:  []string{"https://music.yandex.ru/users/USER/playlists/ID"},
			excludes:  []string{spotifyHint, genericHint},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlers(&fakeResolver{err: playlistlink.ErrUnrecognizedURL}, NewMetrics(),
				i18n.NewLocalizer(i18n.DefaultLanguage), tt.providers, zap.NewNop())
			body := postForm(h, "https://example.com/x").Body.String()

			for _, want := range tt.contains {
				if !strings.Contains(body, want) {
					t.Errorf("Expected body to contain %q", want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(body, unwanted) {
					t.Errorf("Expected body not to contain %q", unwanted)
				}
			}
		})
	}
}

func TestHomePostEscapesInput(t *testing.T) {
	rec := postForm(newTestHandlers(&fakeResolver{err: playlistlink.ErrUnrecognizedURL}, i18n.DefaultLanguage),
		`<iframe src="x"></iframe>`)

	if strings.Contains(rec.Body.String(), `<iframe src="x">`) {
		t.Error("Expected user input to be HTML escaped")
	}
}

func TestAPIResolve(t *testing.T) {
	tests := []struct {
		name       string
		resolver   *fakeResolver
		body       string
		wantStatus int
		wantTracks int
		wantReason string
	}{
		{
			name:       "success",
			resolver:   &fakeResolver{tracks: sampleTracks},
			body:       `{"input":"https://open.spotify.com/playlist/abc"}`,
			wantStatus: http.StatusOK,
			wantTracks: 2,
		},
		{
			name:       "empty input",
			resolver:   &fakeResolver{},
			body:       `{"input":""}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantReason: "empty_input",
		},
		{
			name:       "backend failure",
			resolver:   &fakeResolver{err: fmt.Errorf("fetch: %w", playlistlink.ErrBackendUnavailable)},
			body:       `{"input":"https://open.spotify.com/playlist/abc"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantReason: "backend_unavailable",
		},
		{
			name:       "malformed json",
			resolver:   &fakeResolver{},
			body:       `{"input":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers(tt.resolver, i18n.DefaultLanguage)
			req := httptest.NewRequest("POST", "/api/resolve", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			setupRoutes(h).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d (%s)", tt.wantStatus, rec.Code, rec.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				var resp resolveResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if len(resp.Tracks) != tt.wantTracks {
					t.Errorf("Expected %d tracks, got %d", tt.wantTracks, len(resp.Tracks))
				}
				if resp.Tracks[0].Position != 1 || resp.Tracks[0].ID != "t1" {
					t.Errorf("Unexpected first track: %+v", resp.Tracks[0])
				}
				return
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error == "" {
				t.Error("Expected a non-empty error message")
			}
			if resp.Reason != tt.wantReason {
				t.Errorf("Expected reason %q, got %q", tt.wantReason, resp.Reason)
			}

			status := fmt.Sprintf("%d", tt.wantStatus)
			if got := testutil.ToFloat64(h.metrics.RequestsTotal.WithLabelValues("api_resolve", status)); got != 1 {
				t.Errorf("Expected request counter for status %s to be 1, got %v", status, got)
			}
		})
	}
}

func TestAPIResolveJSONFieldNames(t *testing.T) {
	h := newTestHandlers(&fakeResolver{tracks: sampleTracks[:1]}, i18n.DefaultLanguage)
	req := httptest.NewRequest("POST", "/api/resolve", strings.NewReader(`{"input":"x"}`))
	rec := httptest.NewRecorder()
	setupRoutes(h).ServeHTTP(rec, req)

	want := `{"tracks":[{"title":"Artist A - Song A","thumbnail":"https://img/a.jpg","id":"t1","index":1}]}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("Expected body %s, got %s", want, got)
	}
}

func TestUnknownRoute(t *testing.T) {
	h := newTestHandlers(&fakeResolver{}, i18n.DefaultLanguage)
	rec := httptest.NewRecorder()
	setupRoutes(h).ServeHTTP(rec, httptest.NewRequest("GET", "/nope", http.NoBody))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown route, got %d", rec.Code)
	}
}

func TestServer_StartContextCancellation(t *testing.T) {
	config := &core.ServerConfig{Host: "127.0.0.1", Port: 0, ReadTimeout: time.Second, WriteTimeout: time.Second}
	server := NewServer(config, &fakeResolver{}, NewMetrics(), i18n.NewLocalizer(i18n.DefaultLanguage), allProviders, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned error after cancellation: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
	}
}
