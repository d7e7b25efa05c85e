package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/shared"
	"github.com/desertthunder/songwall/internal/tags"
)

var _ list.Item = songItem{}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title + " " + i.song.Metadata.Tags }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	desc := fmt.Sprintf("♥ %s • ▶ %s", shared.FormatCount(i.song.UpvoteCount), shared.FormatCount(i.song.PlayCount))
	if badges := tags.Split(i.song.Metadata.Tags); len(badges) > 0 {
		desc = fmt.Sprintf("%s • %s", desc, strings.Join(badges, ", "))
	}
	return desc
}

func songItems(songs []models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}
	return items
}
