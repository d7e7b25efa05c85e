package download

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// CoverSize is the largest edge, in pixels, of embedded cover art.
const CoverSize = 500

// ResizeCover decodes a cover image, scales it to fit within maxEdge×maxEdge and re-encodes it as JPEG.
//
// The aspect ratio is kept and images already inside the bounds are only re-encoded.
func ResizeCover(data []byte, maxEdge int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("cover has no pixels")
	}

	if maxEdge > 0 && (width > maxEdge || height > maxEdge) {
		if width >= height {
			height = max(height*maxEdge/width, 1)
			width = maxEdge
		} else {
			width = max(width*maxEdge/height, 1)
			height = maxEdge
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode cover: %w", err)
	}
	return buf.Bytes(), nil
}
