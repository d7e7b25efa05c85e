package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/shared"
	"github.com/desertthunder/songwall/internal/tags"
)

//go:embed templates/*.html
var templateFS embed.FS

// Gallery renders song cards and their tag summary.
type Gallery struct {
	tmpl *template.Template
	opts []tags.Option
}

// Card is the view model for one song card.
type Card struct {
	models.Song
	Badges []string
}

type galleryView struct {
	Tags  []models.TagCount
	Cards []Card
}

type pageView struct {
	Title   string
	Gallery *galleryView
	Song    *Card
}

// NewGallery parses the embedded templates. The tag options are applied to every summary.
func NewGallery(opts ...tags.Option) (*Gallery, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"count": shared.FormatCount,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Gallery{tmpl: tmpl, opts: opts}, nil
}

// Render writes the tag summary and the song cards as an HTML fragment.
//
// A nil list writes nothing. An empty list writes the (empty) card grid without a tag summary.
func (g *Gallery) Render(w io.Writer, songs []models.Song) error {
	if songs == nil {
		return nil
	}
	return g.tmpl.ExecuteTemplate(w, "gallery", g.view(songs))
}

// RenderPage writes a full HTML document around the gallery.
func (g *Gallery) RenderPage(w io.Writer, title string, songs []models.Song) error {
	page := pageView{Title: title}
	if songs != nil {
		page.Gallery = g.view(songs)
	}
	return g.tmpl.ExecuteTemplate(w, "base", page)
}

// RenderDetail writes the detail document for one song.
func (g *Gallery) RenderDetail(w io.Writer, song models.Song) error {
	card := newCard(song)
	return g.tmpl.ExecuteTemplate(w, "base", pageView{Title: song.Title, Song: &card})
}

// Summary returns the tag summary with the gallery's options applied.
func (g *Gallery) Summary(songs []models.Song, extra ...tags.Option) []models.TagCount {
	return tags.Aggregate(songs, append(append([]tags.Option{}, g.opts...), extra...)...)
}

func (g *Gallery) view(songs []models.Song) *galleryView {
	cards := make([]Card, len(songs))
	for i, s := range songs {
		cards[i] = newCard(s)
	}
	return &galleryView{Tags: g.Summary(songs), Cards: cards}
}

func newCard(s models.Song) Card {
	return Card{Song: s, Badges: tags.Split(s.Metadata.Tags)}
}
