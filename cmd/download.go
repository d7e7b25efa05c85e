package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songwall/internal/download"
	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/shared"
	"github.com/urfave/cli/v3"
)

// Download saves a cached song's audio into the download directory.
//
// Failures are logged and reported once by the trigger; the command then exits non-zero.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("song-id")
	if id == "" {
		return fmt.Errorf("%w: song-id is required", shared.ErrMissingArgument)
	}

	dir := cmd.String("dir")
	if dir == "" {
		dir = r.config.Download.Dir
	}

	repo, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	persisted, err := repo.GetByClipID(id)
	if err != nil {
		return fmt.Errorf("%w: %s", err, id)
	}
	song := persisted.Song()

	saver := download.NewFileSaver(dir)
	if cmd.Bool("id3") || r.config.Download.ID3 {
		saver.AfterSave = r.id3Hook(ctx, song, r.logger)
	}

	trigger := download.NewTrigger(download.TriggerOpts{
		Fetcher: r.audioFetcher(),
		Saver:   saver,
		Notifier: download.NotifierFunc(func(message string) {
			r.writePlain("✗ %s\n", message)
		}),
		Filename: r.config.Download.Filename,
		Logger:   r.logger,
	})

	if !trigger.Download(ctx, song.AudioURL) {
		return shared.ErrDownloadFailed
	}

	r.writePlain("✓ Saved %q to %s\n", song.Title, saver.LastPath())
	return nil
}

// id3Hook tags a saved file with the song's metadata and, when it can be fetched, its cover art.
// A missing cover is logged and the file is tagged without one.
func (r *Runner) id3Hook(ctx context.Context, song models.Song, logger *log.Logger) func(string) error {
	tagger := download.NewID3Tagger(song)

	return func(path string) error {
		if song.ImageURL != "" {
			if cover, err := r.fetchCover(ctx, song.ImageURL); err != nil {
				logger.Warn("skipping cover art", "song", song.ID, "error", err)
			} else {
				tagger.Cover = cover
			}
		}
		return tagger.Tag(path)
	}
}

func (r *Runner) fetchCover(ctx context.Context, url string) ([]byte, error) {
	blob, err := r.audioFetcher().GetAudioBlob(ctx, url)
	if err != nil {
		return nil, err
	}
	return download.ResizeCover(blob.Data, download.CoverSize)
}
