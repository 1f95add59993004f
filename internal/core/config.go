package core

import (
	"errors"
	"fmt"
	"time"

	"tracklister/internal/i18n"
)

const (
	// DefaultServerPort matches the port the service has always listened on.
	DefaultServerPort = 5000
	// DefaultFetchTimeoutSecs bounds one provider fetch.
	DefaultFetchTimeoutSecs = 60
	// DefaultCoverSize is the Yandex cover resolution token.
	DefaultCoverSize = "400x400"
	maxPort          = 65535
)

type Config struct {
	Yandex    YandexConfig
	Spotify   SpotifyConfig
	Extractor ExtractorConfig
	Server    ServerConfig
	Log       LogConfig
	App       AppConfig
}

type YandexConfig struct {
	Token     string
	BaseURL   string
	CoverSize string
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

type ExtractorConfig struct {
	Enabled    bool
	Path       string
	CookieFile string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	Language         string
	FetchTimeoutSecs int
}

// FetchTimeout returns the per-fetch deadline as a duration.
func (a AppConfig) FetchTimeout() time.Duration {
	return time.Duration(a.FetchTimeoutSecs) * time.Second
}

// WriteTimeoutFor returns the server write timeout that leaves a response room
// after a fetch that ran up to its deadline.
func WriteTimeoutFor(fetchTimeout time.Duration) time.Duration {
	return 2 * fetchTimeout
}

func DefaultConfig() *Config {
	return &Config{
		Yandex: YandexConfig{
			BaseURL:   "https://api.music.yandex.net",
			CoverSize: DefaultCoverSize,
		},
		Extractor: ExtractorConfig{
			Enabled: true,
			Path:    "yt-dlp",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         DefaultServerPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: WriteTimeoutFor(DefaultFetchTimeoutSecs * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			Language:         i18n.Russian,
			FetchTimeoutSecs: DefaultFetchTimeoutSecs,
		},
	}
}

// Validate checks values that would otherwise fail late at request time.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}
	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.App.FetchTimeoutSecs <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %d", c.App.FetchTimeoutSecs)
	}
	if c.Server.WriteTimeout <= c.App.FetchTimeout() {
		return fmt.Errorf("server write timeout %v must exceed fetch timeout %v",
			c.Server.WriteTimeout, c.App.FetchTimeout())
	}
	if !i18n.IsSupported(c.App.Language) {
		return fmt.Errorf("unsupported language: %s", c.App.Language)
	}
	return nil
}
