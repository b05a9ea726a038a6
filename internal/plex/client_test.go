package plex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("X-Plex-Token"))

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer friendlyName="velcro" version="1.41.0.8992">
</MediaContainer>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	identity, err := client.Identity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "velcro", identity.Name)
	assert.Equal(t, "1.41.0.8992", identity.Version)
}

func TestClientUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token")
	_, err := client.Identity(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClientSections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/library/sections", r.URL.Path)

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer>
  <Directory key="1" title="Movies" type="movie"/>
  <Directory key="2" title="Music" type="artist"/>
</MediaContainer>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	sections, err := client.Sections(context.Background())
	require.NoError(t, err)

	require.Len(t, sections, 2)
	assert.Equal(t, Section{Key: "1", Title: "Movies", Type: "movie"}, sections[0])
	assert.Equal(t, Section{Key: "2", Title: "Music", Type: "artist"}, sections[1])
}

func TestClientSectionByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer>
  <Directory key="1" title="Movies" type="movie"/>
</MediaContainer>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")

	sec, err := client.Section(context.Background(), "movies")
	require.NoError(t, err, "match is case-insensitive")
	assert.Equal(t, "1", sec.Key)

	_, err = client.Section(context.Background(), "Anime")
	require.ErrorIs(t, err, ErrSectionNotFound)
	assert.Contains(t, err.Error(), "Anime")
}

func TestClientSectionItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/library/sections/1/all", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("includeGuids"))

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer>
  <Video ratingKey="101" title="Fight Club" year="1999" type="movie"
         thumb="/library/metadata/101/thumb/1" guid="plex://movie/5d776825880197001ec90e92">
    <Guid id="imdb://tt0137523"/>
    <Guid id="tmdb://550"/>
  </Video>
  <Directory ratingKey="201" title="Severance" year="2022" type="show"
             thumb="/library/metadata/201/thumb/1" guid="plex://show/5eb6b5edcbd2aa0040deb331"/>
</MediaContainer>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	items, err := client.SectionItems(context.Background(), "1")
	require.NoError(t, err)

	require.Len(t, items, 2)

	movie := items[0]
	assert.Equal(t, "Fight Club", movie.Title)
	assert.Equal(t, 1999, movie.Year)
	assert.Equal(t, "/library/metadata/101/thumb/1", movie.Thumb)
	assert.Equal(t, []string{"imdb://tt0137523", "tmdb://550"}, movie.Guids)

	show := items[1]
	assert.Equal(t, "Severance", show.Title)
	assert.Equal(t, "show", show.Type)
	assert.Empty(t, show.Guids)
}

func TestItemAggregatedGUID(t *testing.T) {
	item := Item{
		GUID:  "plex://movie/5d776825880197001ec90e92",
		Guids: []string{"imdb://tt0137523", "tmdb://550"},
	}
	assert.Equal(t,
		"plex://movie/5d776825880197001ec90e92 {imdb-tt0137523} {tmdb-550}",
		item.AggregatedGUID())

	assert.Empty(t, Item{}.AggregatedGUID())
}

func TestClientAlbums(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/library/metadata/301/children", r.URL.Path)

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer>
  <Directory ratingKey="302" title="In Rainbows" year="2007" type="album"
             thumb="/library/metadata/302/thumb/1"/>
  <Directory ratingKey="303" title="OK Computer" year="1997" type="album"
             thumb="/library/metadata/303/thumb/1"/>
</MediaContainer>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	albums, err := client.Albums(context.Background(), "301")
	require.NoError(t, err)

	require.Len(t, albums, 2)
	assert.Equal(t, "In Rainbows", albums[0].Title)
	assert.Equal(t, "album", albums[1].Type)
}

func TestClientSectionCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("X-Plex-Container-Size"))

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="0" totalSize="1337"></MediaContainer>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	count, err := client.SectionCount(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 1337, count)
}

func TestClientPosterURL(t *testing.T) {
	client := NewClient("http://plex.local:32400/", "a token")
	assert.Equal(t,
		"http://plex.local:32400/library/metadata/101/thumb/1?X-Plex-Token=a+token",
		client.PosterURL("/library/metadata/101/thumb/1"))
}

func TestClientDownloadPoster(t *testing.T) {
	const payload = "png-bytes"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/library/metadata/101/thumb/1", r.URL.Path)
		// Poster fetches authenticate via query parameter.
		assert.Equal(t, "test-token", r.URL.Query().Get("X-Plex-Token"))
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "Fight Club (1999).png")
	client := NewClient(server.URL, "test-token")
	require.NoError(t, client.DownloadPoster(context.Background(), "/library/metadata/101/thumb/1", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
}

func TestClientDownloadPosterBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "missing.png")
	client := NewClient(server.URL, "test-token")
	err := client.DownloadPoster(context.Background(), "/library/metadata/999/thumb/1", dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "no file left behind on failure")
}

func TestClientConnectionError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-token")
	_, err := client.Identity(context.Background())
	assert.Error(t, err)
}
