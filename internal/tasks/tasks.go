package tasks

import (
	"fmt"

	"github.com/desertthunder/songwall/internal/models"
)

// Phase names a step of a task.
type Phase string

const (
	PhaseFetching Phase = "fetching"
	PhaseCaching  Phase = "caching"
	PhaseDone     Phase = "done"
)

// ProgressUpdate reports how far a task has come.
type ProgressUpdate struct {
	Phase   Phase
	Step    int
	Total   int
	Message string
}

// SongCacher persists songs. repositories.SongCacheAdapter is the production implementation.
type SongCacher interface {
	CacheSong(song models.Song) (created bool, err error)
}

// sendProgress sends without blocking; updates are dropped when nobody is listening.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchedPageUpdate(step, total, page, n int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseFetching,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetched page %d (%d songs)", page, n),
	}
}

func cachingUpdate(step, total int, song models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseCaching,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Caching %s", song.Title),
	}
}

func doneUpdate(result *SyncResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseDone,
		Step:    result.Pages,
		Total:   result.Pages,
		Message: fmt.Sprintf("Synced %d songs (%d new)", result.Fetched, result.Created),
	}
}
