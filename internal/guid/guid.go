// Package guid extracts external identifiers from a Plex item's aggregated
// GUID string. Items carry identifiers from several sources at once (TMDb,
// IMDb, TVDB, Plex's own catalog); which source wins depends on the item kind.
package guid

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// NotFound is returned when no recognized source token is present.
const NotFound = "-1"

// ErrUnsupportedKind indicates the item kind has no known source priority.
var ErrUnsupportedKind = errors.New("unsupported item kind")

// sourcePriority maps an item kind to identifier sources in preference order.
var sourcePriority = map[string][]string{
	"movie": {"tmdb", "imdb", "plex"},
	"show":  {"tvdb", "tmdb", "plex"},
}

// Extract returns the first identifier found in identifiers, searching
// sources in the priority order for kind. Non-Plex tokens appear as
// {source-ID} and yield the bare ID; Plex tokens appear as plex://TYPE/ID
// and yield TYPE/ID. Returns NotFound when no source matches.
func Extract(identifiers, kind string) (string, error) {
	return extract(identifiers, kind, false)
}

// ExtractFull is Extract with the result prefixed by its source scheme,
// e.g. "tmdb://123" or "plex://movie/456".
func ExtractFull(identifiers, kind string) (string, error) {
	return extract(identifiers, kind, true)
}

func extract(identifiers, kind string, full bool) (string, error) {
	sources, ok := sourcePriority[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}

	for _, source := range sources {
		var id string
		if source == "plex" {
			id = plexID(identifiers)
		} else {
			id = tokenID(identifiers, source)
		}
		if id == "" {
			continue
		}
		if full {
			return source + "://" + id, nil
		}
		return id, nil
	}

	return NotFound, nil
}

// tokenID pulls the ID out of the first {source-ID} token.
func tokenID(identifiers, source string) string {
	marker := "{" + source + "-"
	start := strings.Index(identifiers, marker)
	if start == -1 {
		return ""
	}
	rest := identifiers[start+len(marker):]
	end := strings.IndexByte(rest, '}')
	if end == -1 {
		return ""
	}
	return rest[:end]
}

// plexID pulls TYPE/ID out of the first plex://TYPE/ID token. The token runs
// to the next whitespace.
func plexID(identifiers string) string {
	const scheme = "plex://"
	start := strings.Index(identifiers, scheme)
	if start == -1 {
		return ""
	}
	rest := identifiers[start+len(scheme):]
	if end := strings.IndexFunc(rest, unicode.IsSpace); end != -1 {
		rest = rest[:end]
	}
	return rest
}
