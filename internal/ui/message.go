package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songwall/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSongsLoaded MsgKind = iota
	MsgDownloadDone
)

type songsLoaded struct {
	songs []models.Song
	err   error
}

// DownloadResult describes a finished download.
type DownloadResult struct {
	Song  models.Song
	Path  string
	OK    bool
	Toast string
}

// songsLoadedMsg is the constructor for [MsgSongsLoaded]
func songsLoadedMsg(songs []models.Song, err error) Msg {
	return Msg{kind: MsgSongsLoaded, data: songsLoaded{songs, err}}
}

// downloadDoneMsg is the constructor for [MsgDownloadDone]
func downloadDoneMsg(result DownloadResult) Msg {
	return Msg{kind: MsgDownloadDone, data: result}
}
