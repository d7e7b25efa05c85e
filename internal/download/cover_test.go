package download_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/desertthunder/songwall/internal/download"
	"github.com/desertthunder/songwall/internal/models"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResizeCover(t *testing.T) {
	cases := []struct {
		name         string
		w, h, edge   int
		wantW, wantH int
	}{
		{"landscape shrinks to width", 1000, 500, 500, 500, 250},
		{"portrait shrinks to height", 300, 900, 300, 100, 300},
		{"small image keeps size", 120, 80, 500, 120, 80},
		{"no bound", 640, 640, 0, 640, 640},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := download.ResizeCover(pngOf(t, tc.w, tc.h), tc.edge)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			img, err := jpeg.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("expected JPEG output: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tc.wantW || b.Dy() != tc.wantH {
				t.Errorf("expected %dx%d, got %dx%d", tc.wantW, tc.wantH, b.Dx(), b.Dy())
			}
		})
	}

	t.Run("rejects non-images", func(t *testing.T) {
		if _, err := download.ResizeCover([]byte("<html>"), download.CoverSize); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestID3TaggerCover(t *testing.T) {
	cover, err := download.ResizeCover(pngOf(t, 64, 64), download.CoverSize)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	tagger := download.NewID3Tagger(models.Song{Title: "Harbor Lights", Metadata: models.Metadata{Tags: "dreamy, acoustic"}})
	tagger.Cover = cover

	saver := download.NewFileSaver(dir)
	saver.AfterSave = tagger.Tag
	if err := saver.SaveBlobAsFile(download.Blob{Data: []byte("frames")}, "audio.mp3"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	tag, err := id3v2.Open(filepath.Join(dir, "audio.mp3"), id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}
	defer tag.Close()

	if tag.Title() != "Harbor Lights" || tag.Artist() != download.DefaultArtist {
		t.Errorf("unexpected title/artist %q/%q", tag.Title(), tag.Artist())
	}
	if !strings.Contains(tag.Genre(), "dreamy; acoustic") {
		t.Errorf("unexpected genre %q", tag.Genre())
	}

	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pictures) != 1 {
		t.Fatalf("expected one picture frame, got %d", len(pictures))
	}
	if pic, ok := pictures[0].(id3v2.PictureFrame); !ok || !bytes.Equal(pic.Picture, cover) {
		t.Error("expected embedded cover to match")
	}
}
