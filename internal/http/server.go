package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tracklister/internal/core"
	"tracklister/internal/i18n"
	"tracklister/pkg/playlistlink"
)

const (
	formField       = "playlist_url"
	maxRequestBytes = 64 << 10
	shutdownTimeout = 10 * time.Second
)

// Resolver turns user input into an ordered track list.
type Resolver interface {
	Diagnose(ctx context.Context, input string) ([]playlistlink.TrackEntry, error)
}

type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	metrics *Metrics
}

// Providers lists the optional link formats the resolver can serve.
// Yandex Music links are always served.
type Providers struct {
	Spotify bool
	Generic bool
}

// handlers carries the dependencies shared by the routes.
type handlers struct {
	resolver  Resolver
	metrics   *Metrics
	localizer *i18n.Localizer
	providers Providers
	logger    *zap.Logger
	page      *template.Template
}

func NewServer(config *core.ServerConfig, resolver Resolver, metrics *Metrics,
	localizer *i18n.Localizer, providers Providers, logger *zap.Logger) *Server {
	h := newHandlers(resolver, metrics, localizer, providers, logger)

	return &Server{
		config:  config,
		logger:  logger,
		server:  createHTTPServer(config, setupRoutes(h)),
		metrics: metrics,
	}
}

func newHandlers(resolver Resolver, metrics *Metrics, localizer *i18n.Localizer,
	providers Providers, logger *zap.Logger) *handlers {
	return &handlers{
		resolver:  resolver,
		metrics:   metrics,
		localizer: localizer,
		providers: providers,
		logger:    logger,
		page:      template.Must(template.New("page").Funcs(template.FuncMap{"t": localizer.T}).Parse(pageTemplate)),
	}
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func setupRoutes(h *handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.instrument("healthz", statusHandler("ok")))
	mux.HandleFunc("GET /readyz", h.instrument("readyz", statusHandler("ready")))
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.metrics.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("POST /api/resolve", h.instrument("api_resolve", h.apiResolve))
	mux.HandleFunc("GET /{$}", h.instrument("home", h.home))
	mux.HandleFunc("POST /{$}", h.instrument("home", h.home))

	return mux
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) GetMetrics() *Metrics {
	return s.metrics
}

func statusHandler(status string) http.HandlerFunc {
	body := fmt.Sprintf(`{"status":%q,"service":"tracklister"}`, status)
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

// pageData is rendered by pageTemplate.
type pageData struct {
	Lang      string
	Input     string
	Error     string
	Hints     bool
	Providers Providers
	Tracks    []playlistlink.TrackEntry
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	data := pageData{Lang: h.localizer.Language(), Providers: h.providers}

	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
		data.Input = r.FormValue(formField)

		tracks, err := h.resolver.Diagnose(r.Context(), data.Input)
		switch {
		case errors.Is(err, playlistlink.ErrEmptyInput):
			data.Error = h.localizer.T("error.empty_input")
		case err != nil:
			data.Error = h.localizer.T("error.resolve_failed")
			data.Hints = true
		default:
			data.Tracks = tracks
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, data); err != nil {
		h.logger.Error("Failed to render page", zap.Error(err))
	}
}

type resolveRequest struct {
	Input string `json:"input"`
}

type resolveResponse struct {
	Tracks []playlistlink.TrackEntry `json:"tracks"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func (h *handlers) apiResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: h.localizer.T("error.bad_request")})
		return
	}

	tracks, err := h.resolver.Diagnose(r.Context(), req.Input)
	if err != nil {
		message := h.localizer.T("error.resolve_failed")
		if errors.Is(err, playlistlink.ErrEmptyInput) {
			message = h.localizer.T("error.empty_input")
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: message, Reason: playlistlink.Reason(err)})
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{Tracks: tracks})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *handlers) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)
		h.metrics.RecordRequest(route, rec.status)
		h.logger.Debug("Served request",
			zap.String("route", route),
			zap.String("method", r.Method),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	}
}

const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
    <meta charset="utf-8">
    <title>{{t "page.title"}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        input[type=text] { width: 60%; padding: 6px; }
        .error { color: #b00020; }
        table { border-collapse: collapse; margin-top: 20px; }
        td, th { border-bottom: 1px solid #ddd; padding: 6px 10px; text-align: left; }
        img { width: 48px; height: 48px; }
    </style>
</head>
<body>
    <h1>{{t "page.title"}}</h1>
    <form method="post" action="/">
        <label for="playlist_url">{{t "form.label"}}</label><br>
        <input type="text" id="playlist_url" name="playlist_url" value="{{.Input}}" placeholder="{{t "form.placeholder"}}">
        <button type="submit">{{t "form.submit"}}</button>
    </form>
    {{if .Error}}
    <div class="error">
        <p>{{.Error}}</p>
        {{if .Hints}}
        <ul>
            <li>{{t "hint.availability"}}</li>
            <li>{{t "hint.link"}}</li>
            <li>{{t "hint.private"}}</li>
        </ul>
        <p>{{t "hint.formats"}}</p>
        <ul>
            <li>{{t "hint.format_users"}}</li>
            <li>{{t "hint.format_iframe"}}</li>
            {{if .Providers.Spotify}}<li>{{t "hint.format_spotify"}}</li>{{end}}
            <li>{{t "hint.format_embed"}}</li>
            {{if .Providers.Generic}}<li>{{t "hint.format_generic"}}</li>{{end}}
        </ul>
        <p>{{t "hint.lk"}}</p>
        {{end}}
    </div>
    {{end}}
    {{if .Tracks}}
    <p>{{t "table.count" (len .Tracks)}}</p>
    <table>
        <tr><th>{{t "table.position"}}</th><th>{{t "table.cover"}}</th><th>{{t "table.title"}}</th><th>{{t "table.id"}}</th></tr>
        {{range .Tracks}}
        <tr>
            <td>{{.Position}}</td>
            <td>{{if .ThumbnailURL}}<img src="{{.ThumbnailURL}}" alt="">{{end}}</td>
            <td>{{.DisplayTitle}}</td>
            <td>{{.ID}}</td>
        </tr>
        {{end}}
    </table>
    {{end}}
</body>
</html>`
