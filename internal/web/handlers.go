package web

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songwall/internal/download"
	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/server"
	"github.com/desertthunder/songwall/internal/shared"
	"github.com/desertthunder/songwall/internal/tags"
)

// SongStore is the song data source behind the web views.
type SongStore interface {
	Songs() ([]models.Song, error)
	GetByClipID(clipID string) (*models.PersistedSong, error)
}

// HandlerOpts configures a [Handler]. Filename defaults to [download.DefaultFilename].
type HandlerOpts struct {
	Store    SongStore
	Gallery  *Gallery
	Fetcher  download.Fetcher
	Filename string
	Logger   *log.Logger
}

// Handler serves the gallery routes.
type Handler struct {
	store    SongStore
	gallery  *Gallery
	fetcher  download.Fetcher
	filename string
	logger   *log.Logger
	mux      *http.ServeMux
}

// NewHandler creates a Handler and its route table.
func NewHandler(opts HandlerOpts) *Handler {
	if opts.Filename == "" {
		opts.Filename = download.DefaultFilename
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	h := &Handler{
		store:    opts.Store,
		gallery:  opts.Gallery,
		fetcher:  opts.Fetcher,
		filename: opts.Filename,
		logger:   shared.WithLogger(opts.Logger, "component", "web"),
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc(routeIndex, h.index)
	h.mux.HandleFunc(routeDetail, h.detail)
	h.mux.HandleFunc(routeTags, h.tags)
	h.mux.HandleFunc(routeDownload, h.download)
	return h
}

const (
	routeIndex    = "GET /{$}"
	routeDetail   = "GET /detail/{id}"
	routeTags     = "GET /api/tags"
	routeDownload = "GET /download/{id}"
)

// Routes implements [server.Handler].
func (h *Handler) Routes() []string {
	return []string{routeIndex, routeDetail, routeTags, routeDownload}
}

// ServeHTTP implements [http.Handler].
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	songs, err := h.store.Songs()
	if err != nil {
		h.logger.Error("failed to load songs", "error", err)
		http.Error(w, "Failed to load songs", http.StatusInternalServerError)
		return
	}

	h.html(w, func(buf *bytes.Buffer) error { return h.gallery.RenderPage(buf, "", songs) })
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	song, ok := h.lookup(w, r.PathValue("id"))
	if !ok {
		return
	}

	h.html(w, func(buf *bytes.Buffer) error { return h.gallery.RenderDetail(buf, song) })
}

func (h *Handler) tags(w http.ResponseWriter, r *http.Request) {
	var opts []tags.Option
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		opts = append(opts, tags.WithLimit(n))
	}

	songs, err := h.store.Songs()
	if err != nil {
		h.logger.Error("failed to load songs", "error", err)
		http.Error(w, "Failed to load songs", http.StatusInternalServerError)
		return
	}

	summary := h.gallery.Summary(songs, opts...)
	if summary == nil {
		summary = []models.TagCount{}
	}

	data, err := shared.MarshalJSON(summary, false)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	song, ok := h.lookup(w, r.PathValue("id"))
	if !ok {
		return
	}

	saver := NewHTTPSaver(w)
	trigger := download.NewTrigger(download.TriggerOpts{
		Fetcher:  h.fetcher,
		Saver:    saver,
		Notifier: NewToastNotifier(w, saver),
		Filename: h.filename,
		Logger:   h.logger,
	})
	trigger.Download(r.Context(), song.AudioURL)
}

// lookup resolves a song id, answering 404 or 500 itself when it cannot.
func (h *Handler) lookup(w http.ResponseWriter, id string) (models.Song, bool) {
	p, err := h.store.GetByClipID(id)
	switch {
	case errors.Is(err, shared.ErrSongNotFound):
		http.Error(w, "Song not found", http.StatusNotFound)
		return models.Song{}, false
	case err != nil:
		h.logger.Error("failed to load song", "id", id, "error", err)
		http.Error(w, "Failed to load song", http.StatusInternalServerError)
		return models.Song{}, false
	}
	return p.Song(), true
}

// html renders into a buffer first so a template error can still produce a clean 500.
func (h *Handler) html(w http.ResponseWriter, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

var _ server.Handler = (*Handler)(nil)
