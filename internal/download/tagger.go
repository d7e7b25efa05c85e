package download

import (
	"fmt"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/tags"
)

// DefaultArtist is written to TPE1 when a song has no artist of its own.
const DefaultArtist = "songwall"

// ID3Tagger writes song metadata into a saved MP3. Use [ID3Tagger.Tag] as a [FileSaver.AfterSave] hook.
//
// Cover, when set, is JPEG data embedded as the front cover (see [ResizeCover]).
type ID3Tagger struct {
	Song   models.Song
	Artist string
	Cover  []byte
}

// NewID3Tagger creates a tagger for song.
func NewID3Tagger(song models.Song) *ID3Tagger {
	return &ID3Tagger{Song: song, Artist: DefaultArtist}
}

// Tag sets title (TIT2), artist (TPE1), genre (TCON) and cover (APIC) on the file at path, keeping any other frames.
func (t *ID3Tagger) Tag(path string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open %s for tagging: %w", path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if t.Song.Title != "" {
		tag.SetTitle(t.Song.Title)
	}
	if t.Artist != "" {
		tag.SetArtist(t.Artist)
	}
	if genre := Genre(t.Song.Metadata.Tags); genre != "" {
		tag.SetGenre(genre)
	}
	if len(t.Cover) > 0 {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     t.Cover,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}
	return nil
}

// Genre turns a raw tag string into a TCON value: the cleaned tags joined with "; ".
func Genre(raw string) string {
	return strings.Join(tags.Split(raw), "; ")
}
