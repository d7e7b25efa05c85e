package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/songwall/internal/download"
	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/repositories"
	"github.com/desertthunder/songwall/internal/shared"
	tu "github.com/desertthunder/songwall/internal/testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestRunner returns a runner over an in-memory database already holding the fixture songs.
func newTestRunner(t *testing.T, fetcher download.Fetcher) (*Runner, *bytes.Buffer) {
	t.Helper()
	db := setupTestDB(t)
	output := &bytes.Buffer{}

	r := NewRunner(RunnerOpts{
		Config:  shared.DefaultConfig(),
		Logger:  shared.NewLogger(&bytes.Buffer{}),
		Output:  output,
		Fetcher: fetcher,
		DB:      db,
	})

	repo, closeStore, err := r.openStore()
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	cache := repositories.NewSongCacheAdapter(repo)
	for _, song := range tu.Fixture() {
		if _, err := cache.CacheSong(song); err != nil {
			t.Fatalf("failed to seed song: %v", err)
		}
	}
	return r, output
}

func run(r *Runner, args ...string) error {
	return r.app().Run(context.Background(), append([]string{"songwall"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			source := &tu.MockSongSource{}
			fetcher := &tu.MockFetcher{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Source:     source,
				Fetcher:    fetcher,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.songSource() != source {
				t.Error("expected source to be used")
			}
			if runner.audioFetcher() != fetcher {
				t.Error("expected fetcher to be used")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.configFixed {
				t.Error("expected config to be resolved at run time")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil services builds HTTP clients", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.songSource().Name() != "feed" {
				t.Errorf("expected feed source, got %s", runner.songSource().Name())
			}
			if runner.audioFetcher() == nil {
				t.Error("expected audio fetcher")
			}
		})
	})

	t.Run("before loads config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[tags]\nlimit = 1\n"), 0644); err != nil {
			t.Fatal(err)
		}

		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})
		if err := run(runner, "--config", path, "tags", "--format", "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Fatalf("expected ErrInvalidFlag, got %v", err)
		}
		if runner.config.Tags.Limit != 1 {
			t.Errorf("expected limit from file, got %d", runner.config.Tags.Limit)
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world" {
			t.Errorf("expected 'hello world', got %q", output.String())
		}
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "sync", "serve", "tags", "songs", "download", "browse"} {
			if !names[want] {
				t.Errorf("expected %s command", want)
			}
		}
	})
}

func TestCommands(t *testing.T) {
	t.Run("sync caches feed pages", func(t *testing.T) {
		db := setupTestDB(t)
		output := &bytes.Buffer{}
		fixture := tu.Fixture()
		source := &tu.MockSongSource{
			Pages: map[int][]models.Song{0: fixture[:1], 1: fixture[1:]},
		}

		runner := NewRunner(RunnerOpts{
			Config: shared.DefaultConfig(),
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: output,
			Source: source,
			DB:     db,
		})

		if err := run(runner, "sync", "--pages", "2"); err != nil {
			t.Fatalf("sync failed: %v", err)
		}

		out := output.String()
		if !strings.Contains(out, "Songs: 2 fetched, 2 new, 0 updated") || !strings.Contains(out, "Cached songs: 2") {
			t.Errorf("unexpected summary %q", out)
		}
	})

	t.Run("tags formats", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockFetcher{})

		if err := run(runner, "tags", "--format", "csv"); err != nil {
			t.Fatalf("tags failed: %v", err)
		}
		if want := "Rank,Tag,Count\n1,dreamy,2\n2,synthwave,1\n3,acoustic,1\n"; output.String() != want {
			t.Errorf("expected %q, got %q", want, output.String())
		}

		output.Reset()
		if err := run(runner, "tags", "--format", "json", "--double", "--limit", "1"); err != nil {
			t.Fatalf("tags failed: %v", err)
		}
		var counts []models.TagCount
		if err := json.Unmarshal(output.Bytes(), &counts); err != nil {
			t.Fatalf("failed to decode %q: %v", output.String(), err)
		}
		if len(counts) != 1 || counts[0] != (models.TagCount{Name: "dreamy", Count: 4}) {
			t.Errorf("unexpected counts %v", counts)
		}
	})

	t.Run("tags to file", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockFetcher{})
		path := filepath.Join(t.TempDir(), "tags.md")

		if err := run(runner, "tags", "--format", "markdown", "--output", path); err != nil {
			t.Fatalf("tags failed: %v", err)
		}
		if got := tu.MustReadFile(t, path); !strings.Contains(got, "| 1 | dreamy | 2 |") {
			t.Errorf("unexpected file %q", got)
		}
	})

	t.Run("tags rejects unknown format", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockFetcher{})

		if err := run(runner, "tags", "--format", "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("songs", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockFetcher{})

		if err := run(runner, "songs", "--tag", "acoustic"); err != nil {
			t.Fatalf("songs failed: %v", err)
		}
		if out := output.String(); !strings.Contains(out, "Harbor Lights") || strings.Contains(out, "Neon Rain") {
			t.Errorf("expected only the acoustic song, got %q", out)
		}

		output.Reset()
		if err := run(runner, "songs", "--json"); err != nil {
			t.Fatalf("songs failed: %v", err)
		}
		var songs []models.Song
		if err := json.Unmarshal(output.Bytes(), &songs); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(songs) != 2 || songs[0].ID != "clip-1" {
			t.Errorf("unexpected songs %v", songs)
		}
	})

	t.Run("download saves audio", func(t *testing.T) {
		dir := t.TempDir()
		runner, output := newTestRunner(t, &tu.MockFetcher{Blob: download.Blob{Data: []byte("audio")}})

		if err := run(runner, "download", "--dir", dir, "clip-2"); err != nil {
			t.Fatalf("download failed: %v", err)
		}

		path := filepath.Join(dir, "audio.mp3")
		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), path) {
			t.Errorf("expected path in output, got %q", output.String())
		}
	})

	t.Run("download with id3 tags", func(t *testing.T) {
		dir := t.TempDir()
		runner, _ := newTestRunner(t, &tu.MockFetcher{Blob: download.Blob{Data: []byte("audio")}})

		if err := run(runner, "download", "--dir", dir, "--id3", "clip-1"); err != nil {
			t.Fatalf("download failed: %v", err)
		}

		content := tu.MustReadFile(t, filepath.Join(dir, "audio.mp3"))
		if !strings.HasPrefix(content, "ID3") || !strings.Contains(content, "Neon Rain") {
			t.Errorf("expected tagged file, got %q", content)
		}
	})

	t.Run("download failure notifies once", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockFetcher{Err: errors.New("timeout")})

		err := run(runner, "download", "--dir", t.TempDir(), "clip-1")
		if !errors.Is(err, shared.ErrDownloadFailed) {
			t.Errorf("expected ErrDownloadFailed, got %v", err)
		}
		if strings.Count(output.String(), "✗ error download") != 1 {
			t.Errorf("expected a single notification, got %q", output.String())
		}
	})

	t.Run("download unknown song", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockFetcher{})

		if err := run(runner, "download", "missing"); !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
		if err := run(runner, "download"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("setup config", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockFetcher{})
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := run(runner, "--config", path, "setup", "config"); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		tu.AssertFileExists(t, path)

		if err := run(runner, "--config", path, "setup", "config"); err == nil {
			t.Error("expected error for existing file")
		}
		if err := run(runner, "--config", path, "setup", "config", "--force"); err != nil {
			t.Errorf("expected --force to overwrite, got %v", err)
		}
	})

	t.Run("setup database", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "songwall.db")
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})

		if err := run(runner, "setup", "database"); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		tu.AssertFileExists(t, config.Database.Path)

		if err := run(runner, "setup", "rollback"); err != nil {
			t.Errorf("rollback failed: %v", err)
		}
		if err := run(runner, "setup", "rollback"); err == nil {
			t.Error("expected error with nothing to roll back")
		}
	})

	t.Run("web handler", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockFetcher{Err: errors.New("gone")})
		repo, closeStore, err := runner.openStore()
		if err != nil {
			t.Fatal(err)
		}
		defer closeStore()

		handler, err := runner.webHandler(repo)
		if err != nil {
			t.Fatalf("failed to build handler: %v", err)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Neon Rain") {
			t.Errorf("unexpected index response %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/clip-1", nil))
		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})
}
