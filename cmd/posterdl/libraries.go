package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/averageyogi/plex-poster-download/internal/config"
)

var librariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "List the configured Plex libraries",
	RunE:  runLibraries,
}

func init() {
	rootCmd.AddCommand(librariesCmd)
}

func runLibraries(cmd *cobra.Command, args []string) error {
	log := newLogger()

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

	fmt.Printf("Plex: %s (%s)\n\n", srv.Identity.Name, srv.Identity.Version)

	rows := make([][]string, 0, len(sections))
	for _, sec := range sections {
		count, err := srv.SectionCount(cmd.Context(), sec.Key)
		if err != nil {
			return fmt.Errorf("count items in %s: %w", sec.Title, err)
		}
		rows = append(rows, []string{sec.Title, sec.Type, strconv.Itoa(count)})
	}

	fmt.Println(renderTable([]string{"Library", "Type", "Items"}, rows))
	return nil
}
