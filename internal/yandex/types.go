package yandex

import (
	"bytes"
	"encoding/json"

	"tracklister/pkg/playlistlink"
)

type playlistResponse struct {
	Result *playlist `json:"result"`
}

type errorResponse struct {
	Error struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

type playlist struct {
	Kind   flexibleID   `json:"kind"`
	Title  string       `json:"title"`
	Tracks []trackShort `json:"tracks"`
}

// trackShort is a playlist entry. The embedded track may be missing for removed content.
type trackShort struct {
	ID    flexibleID `json:"id"`
	Track *track     `json:"track"`
}

type track struct {
	ID       flexibleID `json:"id"`
	Title    string     `json:"title"`
	CoverURI string     `json:"coverUri"`
	Artists  []artist   `json:"artists"`
	Albums   []album    `json:"albums"`
}

type artist struct {
	Name string `json:"name"`
}

type album struct {
	CoverURI string `json:"coverUri"`
}

// flexibleID accepts both numeric and string identifiers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

func (s *trackShort) toRaw() *playlistlink.RawTrack {
	if s.Track == nil {
		return nil
	}

	t := s.Track
	id := string(t.ID)
	if id == "" {
		id = string(s.ID)
	}

	raw := &playlistlink.RawTrack{
		Provider: playlistlink.ProviderYandex,
		ID:       id,
		Title:    t.Title,
		CoverURI: t.CoverURI,
	}
	for _, a := range t.Artists {
		raw.Artists = append(raw.Artists, a.Name)
	}
	if len(t.Albums) > 0 {
		raw.AlbumCoverURI = t.Albums[0].CoverURI
	}
	return raw
}
