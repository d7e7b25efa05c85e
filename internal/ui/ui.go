package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/songwall/internal/download"
	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/shared"
	"github.com/desertthunder/songwall/internal/tags"
)

// SongLoader supplies the songs to browse.
type SongLoader interface {
	Songs() ([]models.Song, error)
}

// ModelOpts configures a [Model].
//
// Dir is the download directory and Filename the saved name ([download.DefaultFilename] when empty).
// AfterSave, when set, builds a post-save hook for the song being downloaded.
type ModelOpts struct {
	Store      SongLoader
	Fetcher    download.Fetcher
	Dir        string
	Filename   string
	TagOptions []tags.Option
	AfterSave  func(models.Song) func(path string) error
	Logger     *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	opts    ModelOpts
	logger  *log.Logger
	width   int
	height  int
	list    list.Model
	songs   []models.Song
	tags    []models.TagCount
	pending int
	status  string
	toast   string
	err     error
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Songs"
	l.SetShowHelp(false)

	return &Model{
		ctx:    ctx,
		opts:   opts,
		logger: shared.WithLogger(opts.Logger, "component", "ui"),
		list:   l,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by loading songs from the store.
func (m *Model) Init() tea.Cmd {
	return m.loadSongs()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgSongsLoaded:
			data := msg.data.(songsLoaded)
			if data.err != nil {
				m.err = data.err
				return m, nil
			}
			m.err = nil
			m.songs = data.songs
			m.tags = tags.Aggregate(data.songs, m.opts.TagOptions...)
			cmd := m.list.SetItems(songItems(data.songs))
			m.list.Title = fmt.Sprintf("Songs (%d)", len(data.songs))
			m.resize()
			return m, cmd

		case MsgDownloadDone:
			res := msg.data.(DownloadResult)
			m.pending = max(m.pending-1, 0)
			if res.OK {
				m.status = fmt.Sprintf("Saved %q to %s", res.Song.Title, res.Path)
				m.toast = ""
			} else {
				m.toast = res.Toast
				m.status = ""
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the header, the song list and the status line.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to reload, q to quit", m.err))
	}

	var b strings.Builder
	if header := renderTags(m.tags, m.width); header != "" {
		b.WriteString(header)
		b.WriteString("\n\n")
	}
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

// Toast returns the current error toast, if any.
func (m *Model) Toast() string { return m.toast }

// Status returns the last success message, if any.
func (m *Model) Status() string { return m.status }

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.toast = ""

	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		return m, m.loadSongs()
	case key.Matches(msg, m.keys.download):
		if item, ok := m.list.SelectedItem().(songItem); ok {
			m.pending++
			m.status = fmt.Sprintf("Downloading %q...", item.song.Title)
			return m, m.startDownload(item.song)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) statusLine() string {
	switch {
	case m.toast != "":
		return styles.err.Render("✗ " + m.toast)
	case m.status != "":
		if m.pending > 0 && strings.HasPrefix(m.status, "Downloading") {
			return styles.warn.Render(m.status)
		}
		return styles.ok.Render(m.status)
	default:
		return styles.help.Render(fmt.Sprintf("%d tags • %d songs", len(m.tags), len(m.songs)))
	}
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	headerHeight := 0
	if header := renderTags(m.tags, m.width); header != "" {
		headerHeight = strings.Count(header, "\n") + 3
	}
	m.list.SetSize(m.width-4, max(m.height-headerHeight-4, 5))
}

func (m *Model) loadSongs() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.opts.Store.Songs()
		return songsLoadedMsg(songs, err)
	}
}

// startDownload returns a command that runs one download trigger to completion off the update loop.
func (m *Model) startDownload(song models.Song) tea.Cmd {
	ctx, opts, logger := m.ctx, m.opts, m.logger

	return func() tea.Msg {
		var toast string
		saver := download.NewFileSaver(opts.Dir)
		if opts.AfterSave != nil {
			saver.AfterSave = opts.AfterSave(song)
		}

		trigger := download.NewTrigger(download.TriggerOpts{
			Fetcher:  opts.Fetcher,
			Saver:    saver,
			Notifier: download.NotifierFunc(func(message string) { toast = message }),
			Filename: opts.Filename,
			Logger:   logger,
		})

		ok := trigger.Download(ctx, song.AudioURL)
		return downloadDoneMsg(DownloadResult{Song: song, Path: saver.LastPath(), OK: ok, Toast: toast})
	}
}
