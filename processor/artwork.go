package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
)

const artworkSize = 600

// Artwork normalizes cover images into JPEG no larger than Size pixels
// per side, as many players refuse other picture formats.
type Artwork struct {
	Size uint
}

func (artwork Artwork) Do(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode artwork: %w", err)
	}

	size := artwork.Size
	if size == 0 {
		size = artworkSize
	}
	img = resize.Thumbnail(size, size, img, resize.Lanczos3)

	var buffer bytes.Buffer
	if err := jpeg.Encode(&buffer, img, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("encode artwork: %w", err)
	}
	return os.WriteFile(path, buffer.Bytes(), 0o644)
}
