package ui

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songwall/internal/download"
	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/shared"
	"github.com/desertthunder/songwall/internal/tags"
	tu "github.com/desertthunder/songwall/internal/testing"
)

type fixedStore struct {
	songs []models.Song
	err   error
}

func (f fixedStore) Songs() ([]models.Song, error) { return f.songs, f.err }

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newLoadedModel(t *testing.T, opts ModelOpts) *Model {
	t.Helper()
	if opts.Store == nil {
		opts.Store = fixedStore{songs: tu.Fixture()}
	}
	opts.Logger = shared.NewLogger(&bytes.Buffer{})

	m := NewModel(context.Background(), opts)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(m.Init()())
	return m
}

func TestModel(t *testing.T) {
	t.Run("loads songs and tags", func(t *testing.T) {
		m := newLoadedModel(t, ModelOpts{})

		if len(m.list.Items()) != 2 {
			t.Fatalf("expected 2 items, got %d", len(m.list.Items()))
		}
		if len(m.tags) != 3 || m.tags[0].Name != "dreamy" {
			t.Errorf("unexpected tags %v", m.tags)
		}

		view := m.View()
		for _, want := range []string{"dreamy", "Neon Rain", "3 tags • 2 songs"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected view to contain %q", want)
			}
		}
	})

	t.Run("tag options", func(t *testing.T) {
		m := newLoadedModel(t, ModelOpts{TagOptions: []tags.Option{tags.WithLimit(1), tags.WithDoubleCount(true)}})

		if len(m.tags) != 1 || m.tags[0] != (models.TagCount{Name: "dreamy", Count: 4}) {
			t.Errorf("unexpected tags %v", m.tags)
		}
	})

	t.Run("load error", func(t *testing.T) {
		m := newLoadedModel(t, ModelOpts{Store: fixedStore{err: errors.New("db locked")}})

		if !strings.Contains(m.View(), "db locked") {
			t.Errorf("expected error in view, got %q", m.View())
		}
	})

	t.Run("empty store has no tag header", func(t *testing.T) {
		m := newLoadedModel(t, ModelOpts{Store: fixedStore{songs: []models.Song{}}})

		if m.tags != nil {
			t.Errorf("expected no tags, got %v", m.tags)
		}
		if !strings.Contains(m.View(), "0 tags • 0 songs") {
			t.Errorf("unexpected view %q", m.View())
		}
	})

	t.Run("quit", func(t *testing.T) {
		m := newLoadedModel(t, ModelOpts{})
		_, cmd := m.Update(keyPress('q'))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestDownload(t *testing.T) {
	t.Run("saves selected song", func(t *testing.T) {
		dir := t.TempDir()
		fetcher := &tu.MockFetcher{Blob: download.Blob{Data: []byte("audio")}}
		m := newLoadedModel(t, ModelOpts{Fetcher: fetcher, Dir: dir})

		_, cmd := m.Update(keyPress('d'))
		if cmd == nil {
			t.Fatal("expected download command")
		}
		if !strings.Contains(m.Status(), "Downloading") {
			t.Errorf("expected pending status, got %q", m.Status())
		}

		m.Update(cmd())

		want := filepath.Join(dir, download.DefaultFilename)
		tu.AssertFileExists(t, want)
		if !strings.Contains(m.Status(), want) {
			t.Errorf("expected saved path in status, got %q", m.Status())
		}
		if m.Toast() != "" {
			t.Errorf("expected no toast, got %q", m.Toast())
		}
		if urls := fetcher.URLs(); len(urls) != 1 || urls[0] != tu.Fixture()[0].AudioURL {
			t.Errorf("unexpected fetches %v", urls)
		}
	})

	t.Run("after save hook gets the song", func(t *testing.T) {
		var tagged []string
		m := newLoadedModel(t, ModelOpts{
			Fetcher: &tu.MockFetcher{Blob: download.Blob{Data: []byte("audio")}},
			Dir:     t.TempDir(),
			AfterSave: func(s models.Song) func(string) error {
				return func(path string) error {
					tagged = append(tagged, s.Title+"@"+filepath.Base(path))
					return nil
				}
			},
		})

		_, cmd := m.Update(keyPress('d'))
		m.Update(cmd())

		if len(tagged) != 1 || tagged[0] != "Neon Rain@audio.mp3" {
			t.Errorf("unexpected hook calls %v", tagged)
		}
	})

	t.Run("failure shows toast until next key", func(t *testing.T) {
		m := newLoadedModel(t, ModelOpts{Fetcher: &tu.MockFetcher{Err: errors.New("503")}, Dir: t.TempDir()})

		_, cmd := m.Update(keyPress('d'))
		m.Update(cmd())

		if m.Toast() != download.ErrorMessage {
			t.Fatalf("expected toast %q, got %q", download.ErrorMessage, m.Toast())
		}
		if !strings.Contains(m.View(), download.ErrorMessage) {
			t.Error("expected toast in view")
		}

		m.Update(keyPress('j'))
		if m.Toast() != "" {
			t.Errorf("expected toast cleared, got %q", m.Toast())
		}
	})

	t.Run("no selection", func(t *testing.T) {
		m := newLoadedModel(t, ModelOpts{Store: fixedStore{songs: []models.Song{}}})
		if _, cmd := m.Update(keyPress('d')); cmd != nil {
			t.Error("expected no command without a selection")
		}
	})
}
