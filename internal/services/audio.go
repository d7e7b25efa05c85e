package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/songwall/internal/download"
)

// maxAudioBytes caps a single download.
const maxAudioBytes = 200 << 20

// AudioService fetches audio files over HTTP and implements [download.Fetcher].
type AudioService struct {
	httpClient *http.Client
	userAgent  string
}

// NewAudioService creates an AudioService. A nil client selects [http.DefaultClient].
func NewAudioService(client *http.Client) *AudioService {
	if client == nil {
		client = http.DefaultClient
	}
	return &AudioService{httpClient: client, userAgent: "songwall"}
}

// GetAudioBlob downloads url into memory.
func (a *AudioService) GetAudioBlob(ctx context.Context, url string) (download.Blob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return download.Blob{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return download.Blob{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return download.Blob{}, fmt.Errorf("failed to download audio: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes+1))
	if err != nil {
		return download.Blob{}, fmt.Errorf("failed to read audio data: %w", err)
	}
	if len(data) > maxAudioBytes {
		return download.Blob{}, fmt.Errorf("audio exceeds %d bytes", maxAudioBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return download.Blob{Data: data, ContentType: contentType}, nil
}

var _ download.Fetcher = (*AudioService)(nil)
