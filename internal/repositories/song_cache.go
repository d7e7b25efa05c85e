package repositories

import (
	"errors"
	"fmt"

	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/shared"
)

// SongCacheAdapter implements tasks.SongCacher using [SongRepository].
//
// Songs are keyed by clip ID: a known clip is refreshed in place (counts and tags change upstream),
// a new one is appended to the end of the feed order.
type SongCacheAdapter struct {
	repo *SongRepository
}

// NewSongCacheAdapter creates a new SongCacheAdapter with the given repository
func NewSongCacheAdapter(repo *SongRepository) *SongCacheAdapter {
	return &SongCacheAdapter{repo: repo}
}

// CacheSong upserts song. It reports whether a new row was created.
func (a *SongCacheAdapter) CacheSong(song models.Song) (bool, error) {
	existing, err := a.repo.GetByClipID(song.ID)
	switch {
	case err == nil:
		existing.SetSong(song)
		if err := a.repo.Update(existing); err != nil {
			return false, fmt.Errorf("failed to refresh song %s: %w", song.ID, err)
		}
		return false, nil
	case errors.Is(err, shared.ErrSongNotFound):
		if err := a.repo.Create(models.NewPersistedSong(0, song)); err != nil {
			return false, fmt.Errorf("failed to cache song %s: %w", song.ID, err)
		}
		return true, nil
	default:
		return false, err
	}
}
