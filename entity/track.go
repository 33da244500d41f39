package entity

import (
	"fmt"
	"path"
	"strings"

	"github.com/gosimple/slug"
	"github.com/ppartarr/reel/util"
	"github.com/thanhpk/randstr"
)

const (
	UnknownAlbum = "Unknown Album"

	TrackFormat   = "mp3"
	ArtworkFormat = "jpg"
	LyricsFormat  = "txt"
)

type Artwork struct {
	URL  string
	Data []byte
}

type Track struct {
	ID          string
	Title       string
	Artists     []string
	Album       string
	AlbumArtist string
	Artwork     Artwork
	Duration    int // in seconds
	Lyrics      string
	Number      int // track number within the album
	Disc        int
	Year        int
	UpstreamURL string // URL to the upstream blob the song's been downloaded from
}

type TrackPath struct {
	track *Track
}

// Artist returns the primary credited artist.
func (track *Track) Artist() string {
	if len(track.Artists) == 0 {
		return ""
	}
	return track.Artists[0]
}

// certain track titles include the variant description,
// this functions aims to strip out that part:
// > Title: Name - Acoustic
// > Song:  Name
func (track *Track) Song() (song string) {
	song = track.Title
	song = strings.Split(song+" - ", " - ")[0]
	song = strings.Split(song+" (", " (")[0]
	song = strings.Split(song+" [", " [")[0]
	return
}

// Minimal fills the fields a tagger needs when no catalog entry
// could be associated with the track.
func (track *Track) Minimal() *Track {
	if track.Album == "" {
		track.Album = UnknownAlbum
	}
	if track.AlbumArtist == "" {
		track.AlbumArtist = track.Artist()
	}
	if track.Number == 0 {
		track.Number = 1
	}
	if track.Disc == 0 {
		track.Disc = 1
	}
	return track
}

func (track *Track) String() string {
	return fmt.Sprintf("%s - %s", track.Title, track.Artist())
}

func (track *Track) Path() TrackPath {
	return TrackPath{track}
}

// Final is the file name the track is installed with:
// "<title> - <primary artist>.mp3"
func (trackPath TrackPath) Final() string {
	return util.LegalizeFilename(fmt.Sprintf("%s - %s.%s",
		trackPath.track.Title, trackPath.track.Artist(), TrackFormat))
}

// Download is the cache location the audio stream is fetched to
// before being tagged and installed.
func (trackPath TrackPath) Download() string {
	id := trackPath.track.ID
	if id == "" {
		id = randstr.Hex(8)
	}
	return util.CacheFile(
		util.LegalizeFilename(fmt.Sprintf("%s.%s", slug.Make(id), TrackFormat)),
	)
}

func (trackPath TrackPath) Artwork() string {
	return util.CacheFile(
		util.LegalizeFilename(fmt.Sprintf("%s.%s", slug.Make(path.Base(trackPath.track.Artwork.URL)), ArtworkFormat)),
	)
}

func (trackPath TrackPath) Lyrics() string {
	id := trackPath.track.ID
	if id == "" {
		id = trackPath.track.String()
	}
	return util.CacheFile(
		util.LegalizeFilename(fmt.Sprintf("%s.%s", slug.Make(id), LyricsFormat)),
	)
}
