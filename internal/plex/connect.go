package plex

import (
	"context"
	"errors"
	"fmt"
)

// Server is an established connection to a Plex Media Server.
type Server struct {
	*Client
	Identity     Identity
	UsedFallback bool
}

// Connect dials the primary address and, when that fails with anything other
// than an auth error, tries the fallback address once. There is no retry
// loop; the fallback is a one-shot substitution. A rejected token is fatal
// immediately, regardless of fallback.
func Connect(ctx context.Context, primary, fallback, token string, opts ...Option) (*Server, error) {
	client := NewClient(primary, token, opts...)
	identity, err := client.Identity(ctx)
	if err == nil {
		return &Server{Client: client, Identity: *identity}, nil
	}
	if errors.Is(err, ErrUnauthorized) {
		return nil, err
	}
	if fallback == "" {
		return nil, fmt.Errorf("connect to %s: %w", primary, err)
	}

	if client.log != nil {
		client.log.Warn("primary address unreachable, trying public address",
			"primary", primary, "fallback", fallback, "error", err)
	}

	client = NewClient(fallback, token, opts...)
	identity, err = client.Identity(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("connect to %s (fallback for %s): %w", fallback, primary, err)
	}
	return &Server{Client: client, Identity: *identity, UsedFallback: true}, nil
}
