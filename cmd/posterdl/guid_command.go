package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/averageyogi/plex-poster-download/internal/guid"
)

var guidFull bool

var guidCmd = &cobra.Command{
	Use:   "guid <movie|show> <identifiers>",
	Short: "Extract an external identifier from a Plex GUID string",
	Long: `Extract the best external identifier from an item's aggregated GUID
string, for use when building collections against TMDb/IMDb/TVDB ids.

Movies prefer tmdb, then imdb, then plex; shows prefer tvdb, then tmdb,
then plex. Prints "-1" when no recognized identifier is present.`,
	Example: `  posterdl guid movie "plex://movie/5d776 {imdb-tt0137523} {tmdb-550}"
  posterdl guid show "{tvdb-121361}" --full`,
	Args: cobra.ExactArgs(2),
	RunE: runGUID,
}

func init() {
	guidCmd.Flags().BoolVar(&guidFull, "full", false, "Print the full source://id form")
	rootCmd.AddCommand(guidCmd)
}

func runGUID(cmd *cobra.Command, args []string) error {
	kind, identifiers := args[0], args[1]

	extract := guid.Extract
	if guidFull {
		extract = guid.ExtractFull
	}

	id, err := extract(identifiers, kind)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}
