// Package main provides the tracklister CLI application entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"tracklister/internal/core"
	"tracklister/internal/extractor"
	httpserver "tracklister/internal/http"
	"tracklister/internal/i18n"
	"tracklister/internal/spotify"
	"tracklister/internal/yandex"
	"tracklister/pkg/playlistlink"
)

const envPrefix = "TRACKLISTER"

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tracklister",
	Short: "tracklister - playlist link to track list",
	Long: `tracklister turns a pasted playlist link or embed code (Yandex Music, Spotify,
or any site yt-dlp understands) into an ordered list of tracks.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web form and JSON API (default)",
	RunE:  runServe,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [text...]",
	Short: "Resolve a link or embed code and print its tracks",
	Long:  "Resolve a link or embed code given as arguments (or on stdin) and print one track per line.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runResolve,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(serveCmd, resolveCmd)
	registerFlags(rootCmd)

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func registerFlags(cmd *cobra.Command) {
	defaults := core.DefaultConfig()
	flags := cmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "config file (default is .env)")
	flags.String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	flags.String("log-format", defaults.Log.Format, "log format (json, console)")
	flags.Bool("debug", false, "Force debug logging")
	flags.String("yandex-token", "", "Yandex Music OAuth token (optional)")
	flags.String("yandex-base-url", defaults.Yandex.BaseURL, "Yandex Music API base URL")
	flags.String("yandex-cover-size", defaults.Yandex.CoverSize, "Yandex cover size token")
	flags.String("spotify-client-id", "", "Spotify client ID")
	flags.String("spotify-client-secret", "", "Spotify client secret")
	flags.Bool("extractor-enabled", defaults.Extractor.Enabled, "Enable the yt-dlp fallback for other sites")
	flags.String("extractor-path", defaults.Extractor.Path, "Path to the yt-dlp executable")
	flags.String("extractor-cookie-file", "", "Cookie file passed to yt-dlp")
	flags.Int("fetch-timeout-secs", defaults.App.FetchTimeoutSecs, "Deadline for one provider fetch in seconds")
	flags.String("server-host", defaults.Server.Host, "HTTP server host")
	flags.Int("server-port", defaults.Server.Port, "HTTP server port (PORT is honoured too)")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	flags.String("language", defaults.App.Language, fmt.Sprintf("Interface language (%s)", supportedLangs))
	flags.Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")
}

func initConfig() {
	// Load .env file explicitly using gotenv
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		// Don't exit if .env file doesn't exist
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	// Hosting platforms announce the port through PORT.
	if err := viper.BindEnv("server-port", flagToEnvVar("server-port"), "PORT"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind PORT: %v\n", err)
	}

	config = buildConfig()
	logger = buildLogger(config.Log.Level, config.Log.Format)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Yandex.Token = viper.GetString("yandex-token")
	cfg.Yandex.BaseURL = viper.GetString("yandex-base-url")
	cfg.Yandex.CoverSize = viper.GetString("yandex-cover-size")
	if cfg.Yandex.CoverSize == "" {
		cfg.Yandex.CoverSize = core.DefaultCoverSize
	}

	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")

	cfg.Extractor.Enabled = viper.GetBool("extractor-enabled")
	cfg.Extractor.Path = viper.GetString("extractor-path")
	cfg.Extractor.CookieFile = viper.GetString("extractor-cookie-file")

	cfg.Server.Host = viper.GetString("server-host")
	cfg.Server.Port = viper.GetInt("server-port")

	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.Format = viper.GetString("log-format")
	if viper.GetBool("debug") {
		cfg.Log.Level = "debug"
	}

	cfg.App.FetchTimeoutSecs = viper.GetInt("fetch-timeout-secs")
	cfg.Server.WriteTimeout = core.WriteTimeoutFor(cfg.App.FetchTimeout())
	cfg.App.Language = viper.GetString("language")
	if !i18n.IsSupported(cfg.App.Language) {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(i18n.GetSupportedLanguages(), ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}

	return cfg
}

func buildLogger(level, format string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

// buildEngine wires the provider backends into a resolution engine.
func buildEngine(cfg *core.Config, observer playlistlink.Observer, log *zap.Logger) *playlistlink.Engine {
	opts := []playlistlink.Option{
		playlistlink.WithFetcher(playlistlink.ProviderYandex,
			playlistlink.NewYandexFetcher(yandex.NewClient(&cfg.Yandex, log.Named("yandex")))),
		playlistlink.WithFetcher(playlistlink.ProviderSpotify,
			playlistlink.NewSpotifyFetcher(spotify.NewSessions(log.Named("spotify")),
				cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, playlistlink.DefaultPageSize)),
		playlistlink.WithNormalizer(playlistlink.NewNormalizer(cfg.Yandex.CoverSize)),
		playlistlink.WithFetchTimeout(cfg.App.FetchTimeout()),
	}
	if observer != nil {
		opts = append(opts, playlistlink.WithObserver(observer))
	}

	if cfg.Extractor.Enabled {
		ext := extractor.New(&cfg.Extractor, log.Named("extractor"))
		if !ext.Available() {
			log.Warn("yt-dlp not found, links to other sites will fail",
				zap.String("path", cfg.Extractor.Path))
		}
		opts = append(opts, playlistlink.WithGenericFallback(playlistlink.NewGenericFetcher(ext)))
	}

	return playlistlink.NewEngine(log.Named("engine"), opts...)
}

// enabledProviders reports which optional link formats the configuration can serve.
func enabledProviders(cfg *core.Config) httpserver.Providers {
	return httpserver.Providers{
		Spotify: cfg.Spotify.ClientID != "" && cfg.Spotify.ClientSecret != "",
		Generic: cfg.Extractor.Enabled,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting tracklister",
		zap.String("language", config.App.Language),
		zap.Bool("spotify_configured", enabledProviders(config).Spotify),
		zap.Bool("extractor_enabled", config.Extractor.Enabled))

	metrics := httpserver.NewMetrics()
	engine := buildEngine(config, metrics, logger)
	server := httpserver.NewServer(&config.Server, engine, metrics,
		i18n.NewLocalizer(config.App.Language), enabledProviders(config), logger.Named("http"))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start(gCtx)
	})

	logger.Info("tracklister started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("tracklister stopped with error", zap.Error(err))
		return err
	}

	logger.Info("tracklister stopped gracefully")
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	input := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		input = string(data)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	engine := buildEngine(config, nil, logger)
	tracks, err := engine.Diagnose(ctx, input)
	if err != nil {
		localizer := i18n.NewLocalizer(config.App.Language)
		return fmt.Errorf("%s (%s)", localizer.T("cli.no_result"), playlistlink.Reason(err))
	}

	return printTracks(cmd.OutOrStdout(), tracks)
}

// printTracks writes one "position. title [id]" line per track.
func printTracks(w io.Writer, tracks []playlistlink.TrackEntry) error {
	if len(tracks) == 0 {
		return errors.New("no tracks")
	}
	for _, t := range tracks {
		if _, err := fmt.Fprintf(w, "%d. %s [%s]\n", t.Position, t.DisplayTitle, t.ID); err != nil {
			return err
		}
	}
	return nil
}
