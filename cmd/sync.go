package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/songwall/internal/repositories"
	"github.com/desertthunder/songwall/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync fetches feed pages and caches their songs.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	pages := int(cmd.Int("pages"))
	if pages <= 0 {
		pages = r.config.Feed.Pages
	}

	repo, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	source := r.songSource()
	engine := tasks.NewSyncEngine(source, repositories.NewSongCacheAdapter(repo), tasks.SyncOpts{
		Workers:   r.config.Feed.Workers,
		RateLimit: r.config.Feed.RateLimit,
	}, r.logger)

	r.logger.Info("starting sync", "source", source.Name(), "pages", pages)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progressCh {
			switch update.Phase {
			case tasks.PhaseFetching:
				r.logger.Info(update.Message, "step", update.Step, "total", update.Total)
			case tasks.PhaseCaching:
				r.logger.Debug(update.Message, "step", update.Step, "total", update.Total)
			}
		}
	}()

	result, err := engine.Sync(ctx, progressCh, pages)
	close(progressCh)
	wg.Wait()

	if err != nil {
		return err
	}

	r.writePlainHeader("Sync Complete!")
	r.writePlain("Pages: %d (%d failed)\n", result.Pages, len(result.FailedPages))
	r.writePlain("Songs: %d fetched, %d new, %d updated\n", result.Fetched, result.Created, result.Updated)

	if failed := result.FailedPageNumbers(); len(failed) > 0 {
		r.writePlain("\nFailed pages:\n")
		for _, page := range failed {
			r.writePlain("  - %d: %v\n", page, result.FailedPages[page])
		}
	}
	if len(result.FailedSongs) > 0 {
		r.writePlain("\nFailed to cache %d songs:\n", len(result.FailedSongs))
		for id, err := range result.FailedSongs {
			r.writePlain("  - %s: %v\n", id, err)
		}
	}

	total, err := repo.Count()
	if err != nil {
		return fmt.Errorf("failed to count cached songs: %w", err)
	}
	r.writePlain("\nCached songs: %d\n", total)
	return nil
}
