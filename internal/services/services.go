// package services defines the SongSource interface and HTTP clients for upstream APIs
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/shared"
)

// SongSource provides pages of songs from an upstream catalogue.
type SongSource interface {
	// Songs returns one page of songs. Pages start at 0. An empty page means the feed is exhausted.
	Songs(ctx context.Context, page int) ([]models.Song, error)

	// Name returns a human-readable name for the source.
	Name() string
}

// apiError decodes the {"detail": "..."} body upstream APIs return on failure.
func apiError(service string, resp *http.Response) error {
	var errResp struct {
		Detail string `json:"detail"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
		return fmt.Errorf("%w: %s error (status %d): %s", shared.ErrAPIRequest, service, resp.StatusCode, errResp.Detail)
	}
	return fmt.Errorf("%w: %s error: status %d", shared.ErrAPIRequest, service, resp.StatusCode)
}
