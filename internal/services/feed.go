package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/songwall/internal/models"
)

const defaultFeedBaseURL = "http://localhost:8080"

// FeedService implements [SongSource] against the upstream song feed.
type FeedService struct {
	baseURL    string
	httpClient *http.Client
}

// NewFeedService creates a feed client. Empty baseURL and nil client select defaults.
func NewFeedService(baseURL string, client *http.Client) *FeedService {
	if baseURL == "" {
		baseURL = defaultFeedBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &FeedService{baseURL: baseURL, httpClient: client}
}

// Name returns the service name.
func (f *FeedService) Name() string { return "feed" }

// Songs fetches one page of the feed.
func (f *FeedService) Songs(ctx context.Context, page int) ([]models.Song, error) {
	if page < 0 {
		return nil, fmt.Errorf("invalid page %d", page)
	}

	endpoint := f.baseURL + "/api/feed?" + url.Values{"page": {strconv.Itoa(page)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError("feed", resp)
	}

	var entries []models.FeedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return models.Clips(entries), nil
}

var _ SongSource = (*FeedService)(nil)
