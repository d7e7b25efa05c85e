package tasks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/services"
	"github.com/desertthunder/songwall/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// SyncOpts bounds how hard a sync hits the feed.
type SyncOpts struct {
	Workers   int     // concurrent page fetches (default 3, max 10)
	RateLimit float64 // requests per second (default 2)
}

// SyncResult summarises a sync.
type SyncResult struct {
	Pages       int
	Fetched     int
	Created     int
	Updated     int
	FailedPages map[int]error
	FailedSongs map[string]error
}

// SyncEngine copies the upstream feed into the local cache.
type SyncEngine struct {
	source services.SongSource
	cache  SongCacher
	opts   SyncOpts
	logger *log.Logger
}

// NewSyncEngine creates a SyncEngine. A nil logger selects [shared.NewLogger].
func NewSyncEngine(source services.SongSource, cache SongCacher, opts SyncOpts, logger *log.Logger) *SyncEngine {
	if opts.Workers <= 0 {
		opts.Workers = 3
	}
	if opts.Workers > 10 {
		opts.Workers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SyncEngine{source: source, cache: cache, opts: opts, logger: shared.WithLogger(logger, "component", "sync")}
}

// Sync fetches pages 0..pages-1 and caches their songs in feed order.
//
// It returns an error only when nothing could be fetched or the context was cancelled;
// partial failures are reported in the result.
func (e *SyncEngine) Sync(ctx context.Context, progress chan<- ProgressUpdate, pages int) (*SyncResult, error) {
	if e.source == nil || e.cache == nil {
		return nil, fmt.Errorf("%w: sync requires a song source and a cache", shared.ErrServiceUnavailable)
	}
	if pages <= 0 {
		return nil, fmt.Errorf("%w: pages must be positive, got %d", shared.ErrInvalidArgument, pages)
	}

	result := &SyncResult{
		Pages:       pages,
		FailedPages: make(map[int]error),
		FailedSongs: make(map[string]error),
	}

	fetched, err := e.fetchPages(ctx, progress, pages, result)
	if err != nil {
		return nil, err
	}
	if len(result.FailedPages) == pages {
		return result, fmt.Errorf("%w: every page failed", shared.ErrAPIRequest)
	}

	var songs []models.Song
	for page := 0; page < pages; page++ {
		songs = append(songs, fetched[page]...)
	}
	result.Fetched = len(songs)

	for i, song := range songs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		sendProgress(progress, cachingUpdate(i+1, len(songs), song))

		created, err := e.cache.CacheSong(song)
		switch {
		case err != nil:
			e.logger.Warn("failed to cache song", "clip_id", song.ID, "error", err)
			result.FailedSongs[song.ID] = err
		case created:
			result.Created++
		default:
			result.Updated++
		}
	}

	sendProgress(progress, doneUpdate(result))
	e.logger.Info("sync complete", "fetched", result.Fetched, "created", result.Created, "failed_pages", len(result.FailedPages))
	return result, nil
}

func (e *SyncEngine) fetchPages(ctx context.Context, progress chan<- ProgressUpdate, pages int, result *SyncResult) (map[int][]models.Song, error) {
	limiter := rate.NewLimiter(rate.Limit(e.opts.RateLimit), 1)

	var (
		mu        sync.Mutex
		completed int
		fetched   = make(map[int][]models.Song, pages)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for page := 0; page < pages; page++ {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			songs, err := e.source.Songs(gctx, page)

			mu.Lock()
			defer mu.Unlock()
			completed++

			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				e.logger.Warn("failed to fetch page", "page", page, "error", err)
				result.FailedPages[page] = err
				return nil
			}

			fetched[page] = songs
			sendProgress(progress, fetchedPageUpdate(completed, pages, page, len(songs)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sync cancelled: %w", err)
	}
	return fetched, nil
}

// FailedPageNumbers returns the failed pages in ascending order.
func (r *SyncResult) FailedPageNumbers() []int {
	pages := make([]int, 0, len(r.FailedPages))
	for p := range r.FailedPages {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}
