package entity

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var track = &Track{
	ID:      "0VjIjW4GlUZAMYd2vXMi3b",
	Title:   "Blinding Lights",
	Artists: []string{"The Weeknd"},
	Album:   "After Hours",
	Artwork: Artwork{URL: "https://i.scdn.co/image/ab67616d0000b273"},
}

func TestTrackSong(t *testing.T) {
	for title, song := range map[string]string{
		"Name - Acoustic":      "Name",
		"Name (Live)":          "Name",
		"Name [2011 Remaster]": "Name",
		"Name":                 "Name",
	} {
		assert.Equal(t, song, (&Track{Title: title}).Song())
	}
}

func TestTrackPath(t *testing.T) {
	assert.Equal(t, "Blinding Lights - The Weeknd.mp3", track.Path().Final())
	assert.Equal(t, "0vjijw4gluzamyd2vxmi3b.mp3", filepath.Base(track.Path().Download()))
	assert.Equal(t, "ab67616d0000b273.jpg", filepath.Base(track.Path().Artwork()))
	assert.Equal(t, "0vjijw4gluzamyd2vxmi3b.txt", filepath.Base(track.Path().Lyrics()))
}

func TestTrackPathIllegal(t *testing.T) {
	assert.Equal(t, "What Is Love - AC DC.mp3",
		(&Track{Title: "What Is Love?", Artists: []string{"AC DC"}}).Path().Final())
}

func TestTrackPathRandomDownload(t *testing.T) {
	anonymous := &Track{Title: "Untitled", Artists: []string{"Nobody"}}
	assert.True(t, strings.HasSuffix(anonymous.Path().Download(), ".mp3"))
	assert.NotEqual(t, anonymous.Path().Download(), anonymous.Path().Download())
}

func TestTrackMinimal(t *testing.T) {
	minimal := (&Track{Title: "Song", Artists: []string{"Artist"}}).Minimal()
	assert.Equal(t, UnknownAlbum, minimal.Album)
	assert.Equal(t, "Artist", minimal.AlbumArtist)
	assert.Equal(t, 1, minimal.Number)
	assert.Equal(t, 1, minimal.Disc)
	assert.Equal(t, "Song - Artist", minimal.String())
	assert.Equal(t, "", (&Track{}).Artist())
}
