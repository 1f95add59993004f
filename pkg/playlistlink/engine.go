package playlistlink

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultFetchTimeout bounds a single provider fetch.
const DefaultFetchTimeout = 60 * time.Second

// Engine composes recovery, canonicalization, classification, fetching and normalization.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	classifier   *Classifier
	fetchers     map[Provider]Fetcher
	normalizer   *Normalizer
	logger       *zap.Logger
	observer     Observer
	fetchTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithFetcher registers the fetcher for a provider.
func WithFetcher(p Provider, f Fetcher) Option {
	return func(e *Engine) {
		e.fetchers[p] = f
	}
}

// WithGenericFallback registers the universal extractor fetcher and enables the fallback tier
// of the classifier.
func WithGenericFallback(f Fetcher) Option {
	return func(e *Engine) {
		e.fetchers[ProviderGeneric] = f
		e.classifier = NewClassifier(true)
	}
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *Normalizer) Option {
	return func(e *Engine) {
		e.normalizer = n
	}
}

// WithObserver sets the resolution observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithFetchTimeout sets the deadline applied to each provider fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.fetchTimeout = d
		}
	}
}

// NewEngine creates a resolution engine. Without WithGenericFallback, URLs no provider rule
// recognizes are reported unresolved.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		classifier:   NewClassifier(false),
		fetchers:     make(map[Provider]Fetcher),
		normalizer:   NewNormalizer(""),
		logger:       logger,
		observer:     nopObserver{},
		fetchTimeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve returns the ordered tracks of the playlist referenced by input, or nil when nothing
// could be resolved. It never returns partial results and never panics.
func (e *Engine) Resolve(ctx context.Context, input string) []TrackEntry {
	tracks, _ := e.Diagnose(ctx, input)
	return tracks
}

// Diagnose runs the same pipeline as Resolve and also returns the failure cause.
// The error is meant for logging and metrics; the track list is nil whenever it is non-nil.
func (e *Engine) Diagnose(ctx context.Context, input string) (tracks []TrackEntry, err error) {
	start := time.Now()
	sel := Selector{Provider: ProviderUnresolved}

	defer func() {
		if r := recover(); r != nil {
			tracks = nil
			err = fmt.Errorf("resolve panicked: %v", r)
		}

		e.observer.ObserveResolution(sel.Provider.String(), Reason(err), time.Since(start), len(tracks))
		if err != nil {
			e.logger.Warn("Playlist resolution failed",
				zap.String("provider", sel.Provider.String()),
				zap.String("reason", Reason(err)),
				zap.Error(err))
			return
		}
		e.logger.Info("Playlist resolved",
			zap.String("provider", sel.Provider.String()),
			zap.Int("tracks", len(tracks)),
			zap.Duration("elapsed", time.Since(start)))
	}()

	sel, err = e.Select(input)
	if err != nil {
		return nil, err
	}

	raws, err := e.fetch(ctx, sel)
	if err != nil {
		return nil, err
	}

	tracks = e.normalizer.NormalizeAll(raws, func(index int, skipErr error) {
		e.logger.Warn("Skipping track",
			zap.String("provider", sel.Provider.String()),
			zap.Int("position", index),
			zap.Error(skipErr))
	})
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %d raw tracks from %s", ErrNoNormalizableTracks, len(raws), sel.Provider)
	}

	for i := range tracks {
		tracks[i].Position = i + 1
	}
	return tracks, nil
}

// Select performs recovery, canonicalization and classification without fetching.
// The sentinel-owner case is reported as ErrInsufficientIdentifiers, distinct from ErrUnrecognizedURL.
func (e *Engine) Select(input string) (Selector, error) {
	candidate, ok := RecoverURL(input)
	if !ok {
		return Selector{Provider: ProviderUnresolved}, ErrEmptyInput
	}

	sel := e.classifier.Classify(CanonicalizeForMatch(candidate))
	switch {
	case sel.Unresolved():
		return sel, fmt.Errorf("%w: %q", ErrUnrecognizedURL, candidate)
	case sel.Insufficient():
		return sel, fmt.Errorf("%w: %s", ErrInsufficientIdentifiers, sel.PlaylistID)
	case sel.Provider == ProviderGeneric:
		sel.URL = CanonicalizeForFetch(candidate)
	}
	return sel, nil
}

func (e *Engine) fetch(ctx context.Context, sel Selector) ([]*RawTrack, error) {
	fetcher, ok := e.fetchers[sel.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: no fetcher configured for %s", ErrBackendUnavailable, sel.Provider)
	}

	ctx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	return fetcher.Fetch(ctx, sel)
}
