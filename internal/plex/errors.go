package plex

import "errors"

var (
	// ErrUnauthorized indicates the server rejected the Plex token.
	ErrUnauthorized = errors.New("invalid Plex token")

	// ErrSectionNotFound indicates no library section matched the requested name.
	ErrSectionNotFound = errors.New("library section not found")
)
