package playlistlink

import (
	"errors"
)

var (
	// ErrEmptyInput is returned for empty or whitespace-only input.
	ErrEmptyInput = errors.New("empty input")
	// ErrUnrecognizedURL is returned when no provider rule matches the input.
	ErrUnrecognizedURL = errors.New("unrecognized playlist URL")
	// ErrInsufficientIdentifiers is returned for links that name a known provider but lack the
	// owner needed to fetch; the embed snippet form must be supplied instead.
	ErrInsufficientIdentifiers = errors.New("link does not contain owner and playlist id, paste the embed code instead")
	// ErrBackendUnavailable covers missing credentials, network failures and non-2xx responses.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrPlaylistNotFound is returned when the backend reports no such playlist.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrNoNormalizableTracks is returned when the fetch succeeded but no track survived normalization.
	ErrNoNormalizableTracks = errors.New("no normalizable tracks")
	// ErrTrackUnavailable is returned for a single track that cannot be normalized.
	ErrTrackUnavailable = errors.New("track unavailable")
)

// Reason maps an error to its short taxonomy name for logs and metric labels.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrUnrecognizedURL):
		return "unrecognized_url"
	case errors.Is(err, ErrInsufficientIdentifiers):
		return "insufficient_identifiers"
	case errors.Is(err, ErrPlaylistNotFound):
		return "playlist_not_found"
	case errors.Is(err, ErrNoNormalizableTracks):
		return "no_normalizable_tracks"
	case errors.Is(err, ErrBackendUnavailable):
		return "backend_unavailable"
	default:
		return "internal"
	}
}
