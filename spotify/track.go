package spotify

import (
	"strconv"
	"strings"

	"github.com/ppartarr/reel/entity"
	"github.com/zmb3/spotify/v2"
)

// Result is a catalog track in the shape the matching heuristics need.
type Result struct {
	ID          string
	Title       string
	Artists     []string
	Album       string
	AlbumArtist string
	Duration    int // in milliseconds
	Popularity  int
	Images      []string // largest first
	ReleaseDate string
	TrackNumber int
	DiscNumber  int
}

func names(artists []spotify.SimpleArtist) []string {
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.Name)
	}
	return names
}

func images(images []spotify.Image) []string {
	urls := make([]string, 0, len(images))
	for _, image := range images {
		urls = append(urls, image.URL)
	}
	return urls
}

func fromFullTrack(track spotify.FullTrack) Result {
	result := fromSimpleTrack(track.SimpleTrack, track.Album)
	result.Popularity = int(track.Popularity)
	return result
}

func fromSimpleTrack(track spotify.SimpleTrack, album spotify.SimpleAlbum) Result {
	var albumArtist string
	if len(album.Artists) > 0 {
		albumArtist = album.Artists[0].Name
	}
	return Result{
		ID:          track.ID.String(),
		Title:       track.Name,
		Artists:     names(track.Artists),
		Album:       album.Name,
		AlbumArtist: albumArtist,
		Duration:    int(track.Duration),
		Images:      images(album.Images),
		ReleaseDate: album.ReleaseDate,
		TrackNumber: int(track.TrackNumber),
		DiscNumber:  int(track.DiscNumber),
	}
}

func (result *Result) Year() int {
	if len(result.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(result.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// Track converts the catalog record into the entity tagged into files.
func (result *Result) Track() *entity.Track {
	track := &entity.Track{
		ID:          result.ID,
		Title:       strings.TrimSpace(result.Title),
		Artists:     result.Artists,
		Album:       result.Album,
		AlbumArtist: result.AlbumArtist,
		Duration:    result.Duration / 1000,
		Number:      result.TrackNumber,
		Disc:        result.DiscNumber,
		Year:        result.Year(),
	}
	if len(result.Images) > 0 {
		track.Artwork.URL = result.Images[0]
	}
	if track.AlbumArtist == "" {
		track.AlbumArtist = track.Artist()
	}
	return track
}
