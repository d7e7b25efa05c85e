package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/songwall/internal/shared"
	tu "github.com/desertthunder/songwall/internal/testing"
)

func TestFeedService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewFeedService("", nil)

			if srv.baseURL != "http://localhost:8080" {
				t.Errorf("expected default baseURL 'http://localhost:8080', got %s", srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("With Custom Client", func(t *testing.T) {
			client := &http.Client{}
			srv := NewFeedService("http://example.com", client)

			if srv.httpClient != client {
				t.Error("expected custom client to be used")
			}
		})
	})

	t.Run("Songs", func(t *testing.T) {
		t.Run("Decodes Page", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/feed" {
					t.Errorf("expected path '/api/feed', got %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("page"); got != "2" {
					t.Errorf("expected page=2, got %s", got)
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`[{"clip":{"id":"c1","title":"One","audio_url":"https://cdn/c1.mp3","metadata":{"tags":"pop"},"play_count":3,"upvote_count":1}}]`))
			}))
			defer server.Close()

			songs, err := NewFeedService(server.URL, nil).Songs(context.Background(), 2)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(songs) != 1 || songs[0].ID != "c1" || songs[0].Metadata.Tags != "pop" {
				t.Errorf("unexpected songs %+v", songs)
			}
		})

		t.Run("Upstream Detail In Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"detail":"feed warming up"}`))
			}))
			defer server.Close()

			_, err := NewFeedService(server.URL, nil).Songs(context.Background(), 0)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), "feed warming up") {
				t.Errorf("expected detail in error, got %v", err)
			}
		})

		t.Run("Status Without Detail", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			_, err := NewFeedService(server.URL, nil).Songs(context.Background(), 0)
			if err == nil || !strings.Contains(err.Error(), "status 500") {
				t.Errorf("expected status 500 error, got %v", err)
			}
		})

		t.Run("Invalid JSON", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			}))
			defer server.Close()

			_, err := NewFeedService(server.URL, nil).Songs(context.Background(), 0)
			if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
				t.Errorf("expected decode error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed"))}

			_, err := NewFeedService("http://example.com", client).Songs(context.Background(), 0)
			if err == nil || !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected 'request failed' error, got %v", err)
			}
		})

		t.Run("Negative Page", func(t *testing.T) {
			if _, err := NewFeedService("http://example.com", nil).Songs(context.Background(), -1); err == nil {
				t.Error("expected error for negative page")
			}
		})
	})
}
