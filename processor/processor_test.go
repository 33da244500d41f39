package processor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/ppartarr/reel/entity"
	"github.com/ppartarr/reel/entity/id3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtwork(t *testing.T) {
	var (
		path = filepath.Join(t.TempDir(), "cover.jpg")
		img  = image.NewRGBA(image.Rect(0, 0, 1200, 800))
		data bytes.Buffer
	)
	for x := 0; x < 1200; x++ {
		img.Set(x, x%800, color.RGBA{R: 255, A: 255})
	}
	require.NoError(t, png.Encode(&data, img))
	require.NoError(t, os.WriteFile(path, data.Bytes(), 0o644))

	require.NoError(t, Artwork{}.Do(path))
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	config, err := jpeg.DecodeConfig(file)
	require.NoError(t, err)
	assert.Equal(t, 600, config.Width)
	assert.Equal(t, 400, config.Height)
}

func TestArtworkInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.jpg")
	require.NoError(t, os.WriteFile(path, []byte("<html>not an image</html>"), 0o644))
	assert.ErrorContains(t, Artwork{}.Do(path), "decode artwork")
	assert.Error(t, Artwork{}.Do(filepath.Join(t.TempDir(), "missing.jpg")))
}

func TestEncoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x64}, 32), 0o644))

	track := &entity.Track{
		ID:          "0VjIjW4GlUZAMYd2vXMi3b",
		Title:       "Blinding Lights",
		Artists:     []string{"The Weeknd", "Someone"},
		Album:       "After Hours",
		AlbumArtist: "The Weeknd",
		Number:      9,
		Disc:        1,
		Year:        2020,
		Duration:    200,
		Lyrics:      "I've been tryna call",
		Artwork:     entity.Artwork{URL: "https://i.scdn.co/image/cover", Data: []byte{0xFF, 0xD8}},
		UpstreamURL: "https://www.youtube.com/watch?v=4NRXx6U8ABQ",
	}
	require.NoError(t, Encoder{track}.Do(path))

	tag, err := id3.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()
	assert.Equal(t, track.Title, tag.Title())
	assert.Equal(t, "The Weeknd", tag.Artist())
	assert.Equal(t, track.Album, tag.Album())
	assert.Equal(t, "2020", tag.Year())
	assert.Equal(t, "9", tag.TrackNumber())
	assert.Equal(t, "1", tag.DiscNumber())
	assert.Equal(t, track.ID, tag.SpotifyID())
	assert.Equal(t, track.Lyrics, tag.Lyrics())
	assert.Equal(t, track.Artwork.Data, tag.AttachedPicture())
	assert.Equal(t, track.UpstreamURL, tag.UpstreamURL())

	assert.Error(t, Encoder{}.Do(path))
}

type failing struct{ calls *int }

func (f failing) Do(string) error {
	*f.calls++
	return errors.New("failure")
}

func TestChain(t *testing.T) {
	calls := 0
	assert.Error(t, Chain{nil, failing{&calls}, failing{&calls}}.Do("path"))
	assert.Equal(t, 1, calls)
	assert.NoError(t, Chain{}.Do("path"))
}
