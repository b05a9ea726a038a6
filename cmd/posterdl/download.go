package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/averageyogi/plex-poster-download/internal/config"
	"github.com/averageyogi/plex-poster-download/internal/plex"
	"github.com/averageyogi/plex-poster-download/internal/poster"
)

func runDownload(cmd *cobra.Command, args []string) error {
	root := "Posters"
	if len(args) > 0 {
		root = args[0]
	}

	log := newLogger()

	fmt.Println("Loading Plex config...")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	srv, err := connect(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	sections, err := resolveSections(cmd.Context(), srv, cfg.Libraries)
	if err != nil {
		return err
	}

	d := &poster.Downloader{
		Server: srv,
		Root:   root,
		Log:    log,
	}
	lastDir, err := d.Run(cmd.Context(), sections)
	if err != nil {
		return err
	}

	if lastDir != "" {
		fmt.Printf("Saved to %s\n", lastDir)
	}
	return nil
}

// connect dials the server, wrapping failures with the guidance a user needs
// to fix their environment.
func connect(ctx context.Context, cfg *config.Config, log *slog.Logger) (*plex.Server, error) {
	srv, err := plex.Connect(ctx, cfg.ServerIP, cfg.PublicIP, cfg.Token, plex.WithLogger(log))
	if err != nil {
		if errors.Is(err, plex.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: check %s in .env, and consult the README", err, config.EnvToken)
		}
		which := config.EnvServerIP
		if cfg.UsingPublicIP {
			which = config.EnvPublicIP
		}
		return nil, fmt.Errorf("unable to connect to Plex server: check %s in .env, and consult the README (%w)",
			which, err)
	}

	log.Info("connected to Plex server",
		"name", srv.Identity.Name,
		"version", srv.Identity.Version,
		"address", srv.BaseURL(),
		"fallback", srv.UsedFallback)
	return srv, nil
}

// resolveSections maps configured library names to server sections. A name
// the server doesn't know is a config error, not something to guess around.
func resolveSections(ctx context.Context, srv *plex.Server, libraries []string) ([]plex.Section, error) {
	sections := make([]plex.Section, 0, len(libraries))
	for _, name := range libraries {
		sec, err := srv.Section(ctx, name)
		if err != nil {
			if errors.Is(err, plex.ErrSectionNotFound) {
				return nil, fmt.Errorf("%w: check config.yml, and consult the README", err)
			}
			return nil, err
		}
		sections = append(sections, *sec)
	}
	return sections, nil
}
