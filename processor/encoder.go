package processor

import (
	"errors"
	"fmt"

	"github.com/bogem/id3v2/v2"
	"github.com/ppartarr/reel/entity"
	"github.com/ppartarr/reel/entity/id3"
)

// Encoder writes the track metadata as ID3v2 frames into the file.
type Encoder struct {
	Track *entity.Track
}

func (encoder Encoder) Do(path string) error {
	track := encoder.Track
	if track == nil {
		return errors.New("no track to encode")
	}

	tag, err := id3.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tag: %w", err)
	}
	defer tag.Close()

	tag.SetTitle(track.Title)
	tag.SetArtist(track.Artist())
	tag.SetAlbum(track.Album)
	tag.SetAlbumArtist(track.AlbumArtist)
	tag.SetTrackNumber(track.Number)
	tag.SetDiscNumber(track.Disc)
	tag.SetReleaseYear(track.Year)
	tag.SetDuration(track.Duration)
	tag.SetSpotifyID(track.ID)
	tag.SetArtworkURL(track.Artwork.URL)
	tag.SetUpstreamURL(track.UpstreamURL)
	tag.SetLyrics(track.Lyrics)
	tag.SetAttachedPicture(track.Artwork.Data)

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tag: %w", err)
	}
	return nil
}
