// Package poster walks Plex libraries and saves each item's poster art to
// disk, one PNG per movie, show, or album.
package poster

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/averageyogi/plex-poster-download/internal/plex"
)

// Downloader pulls poster images for every item in the given libraries.
// Work is sequential: one request at a time, one file at a time.
type Downloader struct {
	Server *plex.Server
	Root   string // output root; each library gets a subdirectory

	Log      *slog.Logger
	Out      io.Writer // notices, defaults to os.Stdout
	Progress io.Writer // progress bars, defaults to os.Stderr
}

func (d *Downloader) out() io.Writer {
	if d.Out != nil {
		return d.Out
	}
	return os.Stdout
}

func (d *Downloader) progress() io.Writer {
	if d.Progress != nil {
		return d.Progress
	}
	return os.Stderr
}

// Run downloads posters for every section in order and returns the directory
// the last poster was saved to. Photo libraries and unrecognized section
// types are skipped with a notice. Items without poster art are skipped
// silently.
func (d *Downloader) Run(ctx context.Context, sections []plex.Section) (string, error) {
	var lastDir string

	for _, section := range sections {
		var audio bool
		switch section.Type {
		case "movie", "show":
			audio = false
		case "artist":
			// Music libraries keep poster art on albums, one level down.
			audio = true
		case "photo":
			fmt.Fprintf(d.out(), "Skipping %s: photo libraries are not handled.\n", section.Title)
			continue
		default:
			fmt.Fprintf(d.out(), "Skipping %s: unknown library type %q.\n", section.Title, section.Type)
			continue
		}

		items, err := d.Server.SectionItems(ctx, section.Key)
		if err != nil {
			return "", fmt.Errorf("list %s: %w", section.Title, err)
		}

		// One tick per top-level item, even when an artist yields many albums.
		bar := d.newBar(len(items), section)
		for _, item := range items {
			if audio {
				lastDir, err = d.saveAlbums(ctx, section.Title, item, lastDir)
			} else {
				lastDir, err = d.saveVideo(ctx, section.Title, item, lastDir)
			}
			if err != nil {
				return "", err
			}
			_ = bar.Add(1)
		}
		_ = bar.Finish()
	}

	return lastDir, nil
}

func (d *Downloader) saveVideo(ctx context.Context, library string, item plex.Item, lastDir string) (string, error) {
	if item.Thumb == "" {
		return lastDir, nil
	}
	return d.save(ctx, library, VideoName(item.Title, item.Year), item.Thumb)
}

func (d *Downloader) saveAlbums(ctx context.Context, library string, artist plex.Item, lastDir string) (string, error) {
	albums, err := d.Server.Albums(ctx, artist.RatingKey)
	if err != nil {
		return "", fmt.Errorf("list albums of %s: %w", artist.Title, err)
	}

	for _, album := range albums {
		if album.Thumb == "" {
			continue
		}
		lastDir, err = d.save(ctx, library, SanitizeName(album.Title), album.Thumb)
		if err != nil {
			return "", err
		}
	}
	return lastDir, nil
}

// save resolves a collision-free path and streams the poster to it.
func (d *Downloader) save(ctx context.Context, library, name, thumb string) (string, error) {
	path, err := SavePath(d.Root, library, name)
	if err != nil {
		return "", err
	}
	if err := d.Server.DownloadPoster(ctx, thumb, path); err != nil {
		return "", fmt.Errorf("download poster for %s: %w", name, err)
	}
	if d.Log != nil {
		d.Log.Debug("poster downloaded", "library", library, "name", name)
	}
	return filepath.Dir(path), nil
}

func (d *Downloader) newBar(total int, section plex.Section) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(d.progress()),
		progressbar.OptionSetDescription(section.Title),
		progressbar.OptionSetItsString(section.Type),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(d.progress()) }),
	)
}
