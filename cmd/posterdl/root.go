package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "posterdl [save_path]",
	Short: "Download poster images from a Plex Media Server",
	Long: `posterdl - download poster images from Plex libraries

Walks every library listed in config.yml and saves each item's poster to
disk: one PNG per movie or show, and one per album for music libraries.
Posters land under <save_path>/<LibraryName>/, defaulting to Posters/ in
the current directory.

The server address and token are read from the environment (or a .env
file): PLEX_TOKEN, PLEX_SERVER_IP, and optionally PLEX_SERVER_PUBLIC_IP
as a fallback address.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDownload,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yml", "Path to the library config file")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("posterdl {{.Version}}\n")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("POSTERDL_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
