// Package extractor wraps the yt-dlp executable as a universal playlist metadata extractor.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"tracklister/internal/core"
	"tracklister/pkg/playlistlink"
)

// DefaultPath is the yt-dlp binary looked up on PATH.
const DefaultPath = "yt-dlp"

var (
	// ErrNotInstalled is returned when the yt-dlp binary cannot be found.
	ErrNotInstalled = errors.New("yt-dlp not found")
	// ErrUnsupportedURL is returned when no yt-dlp extractor accepts the URL.
	ErrUnsupportedURL = errors.New("url not supported by extractor")
	// ErrNoInfo is returned when yt-dlp produced no metadata.
	ErrNoInfo = errors.New("extractor returned no metadata")
)

// Runner executes a command and returns its standard output and standard error.
type Runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Extractor runs yt-dlp in flat-playlist, metadata-only mode.
type Extractor struct {
	path       string
	cookieFile string
	run        Runner
	logger     *zap.Logger
}

// New creates an extractor from configuration.
func New(config *core.ExtractorConfig, logger *zap.Logger) *Extractor {
	path := config.Path
	if path == "" {
		path = DefaultPath
	}
	return &Extractor{
		path:       path,
		cookieFile: config.CookieFile,
		run:        execRunner,
		logger:     logger,
	}
}

// WithRunner replaces the command runner.
func (e *Extractor) WithRunner(run Runner) *Extractor {
	e.run = run
	return e
}

// Available reports whether the configured binary can be found.
func (e *Extractor) Available() bool {
	_, err := exec.LookPath(e.path)
	return err == nil
}

// args builds the yt-dlp invocation: flatten playlists, never download, keep going past broken entries.
func (e *Extractor) args(url string) []string {
	args := []string{
		"--flat-playlist",
		"--dump-single-json",
		"--skip-download",
		"--ignore-errors",
		"--no-warnings",
	}
	if e.cookieFile != "" {
		args = append(args, "--cookies", e.cookieFile)
	}
	return append(args, "--", url)
}

// Extract implements playlistlink.Extractor. A collection yields one raw track per entry;
// a single media item yields one pseudo-track.
func (e *Extractor) Extract(ctx context.Context, url string) ([]*playlistlink.RawTrack, error) {
	stdout, stderr, err := e.run(ctx, e.path, e.args(url)...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotInstalled, e.path)
		}
		// With --ignore-errors yt-dlp can exit non-zero and still print usable JSON.
		if len(bytes.TrimSpace(stdout)) == 0 {
			return nil, categorizeError(err, string(stderr))
		}
		e.logger.Debug("yt-dlp reported errors", zap.String("url", url), zap.String("stderr", lastLine(stderr)))
	}

	stdout = bytes.TrimSpace(stdout)
	if len(stdout) == 0 || bytes.Equal(stdout, []byte("null")) {
		return nil, ErrNoInfo
	}

	var info Info
	if err := json.Unmarshal(stdout, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	tracks := info.RawTracks()
	e.logger.Debug("Extracted media info",
		zap.String("url", url),
		zap.String("type", info.Type),
		zap.Int("entries", len(tracks)))
	return tracks, nil
}

// categorizeError turns yt-dlp failures into specific errors.
func categorizeError(err error, stderr string) error {
	stderrLower := strings.ToLower(stderr)

	switch {
	case strings.Contains(stderrLower, "unsupported url") ||
		strings.Contains(stderrLower, "no suitable extractor"):
		return fmt.Errorf("%w: %s", ErrUnsupportedURL, lastLine([]byte(stderr)))
	case strings.Contains(stderrLower, "http error 404") ||
		strings.Contains(stderrLower, "does not exist") ||
		strings.Contains(stderrLower, "playlist does not exist"):
		return fmt.Errorf("%w: %s", playlistlink.ErrPlaylistNotFound, lastLine([]byte(stderr)))
	default:
		return fmt.Errorf("yt-dlp failed: %w: %s", err, lastLine([]byte(stderr)))
	}
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
