// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/songwall/internal/download"
	"github.com/desertthunder/songwall/internal/models"
)

// MockSongSource is a test double for [services.SongSource] serving fixed pages.
//
// Pages maps page number to songs; Errs maps page number to a failure.
type MockSongSource struct {
	Pages map[int][]models.Song
	Errs  map[int]error

	mu    sync.Mutex
	calls []int
}

func (m *MockSongSource) Songs(ctx context.Context, page int) ([]models.Song, error) {
	m.mu.Lock()
	m.calls = append(m.calls, page)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Errs[page]; ok {
		return nil, err
	}
	return m.Pages[page], nil
}

func (m *MockSongSource) Name() string { return "mock" }

// Calls returns the pages requested so far.
func (m *MockSongSource) Calls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.calls...)
}

// MockFetcher is a test double for [download.Fetcher].
type MockFetcher struct {
	Blob download.Blob
	Err  error

	mu   sync.Mutex
	urls []string
}

func (m *MockFetcher) GetAudioBlob(ctx context.Context, url string) (download.Blob, error) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()
	if m.Err != nil {
		return download.Blob{}, m.Err
	}
	return m.Blob, nil
}

// URLs returns every URL requested so far.
func (m *MockFetcher) URLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.urls...)
}

// MockSaver is a test double for [download.Saver] recording each save.
type MockSaver struct {
	Err error

	mu        sync.Mutex
	Filenames []string
	Blobs     []download.Blob
}

func (m *MockSaver) SaveBlobAsFile(blob download.Blob, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Filenames = append(m.Filenames, filename)
	m.Blobs = append(m.Blobs, blob)
	return nil
}

// MockNotifier is a test double for [download.Notifier].
type MockNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (m *MockNotifier) Error(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
}

// Messages returns every message received so far.
func (m *MockNotifier) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

// Fixture returns a small song list with overlapping tags.
func Fixture() []models.Song {
	return []models.Song{
		{
			ID:          "clip-1",
			Title:       "Neon Rain",
			ImageURL:    "https://cdn.example.com/image_clip-1.png",
			AudioURL:    "https://cdn.example.com/clip-1.mp3",
			Metadata:    models.Metadata{Tags: "synthwave, dreamy"},
			PlayCount:   1520,
			UpvoteCount: 87,
		},
		{
			ID:          "clip-2",
			Title:       "Harbor Lights",
			ImageURL:    "https://cdn.example.com/image_clip-2.png",
			AudioURL:    "https://cdn.example.com/clip-2.mp3",
			Metadata:    models.Metadata{Tags: "dreamy, acoustic,"},
			PlayCount:   40,
			UpvoteCount: 5,
		},
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
