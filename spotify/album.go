package spotify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/zmb3/spotify/v2"
)

const (
	// AlbumExact and AlbumGood label album search hits by score.
	AlbumExact = 150
	AlbumGood  = 80

	albumSearchLimit = 10
)

type Album struct {
	ID          string
	Name        string
	Artist      string
	ReleaseDate string
	Tracks      []Result
}

// AlbumHit is an album search result along with its relevance score.
type AlbumHit struct {
	ID          string
	Name        string
	Artists     []string
	ReleaseDate string
	Score       int
}

func (hit AlbumHit) Label() string {
	switch {
	case hit.Score >= AlbumExact:
		return "EXACT"
	case hit.Score >= AlbumGood:
		return "GOOD"
	default:
		return ""
	}
}

// Album fetches an album and all of its tracks.
func (client *Client) Album(ctx context.Context, id string) (*Album, error) {
	ctx, cancel := client.context(ctx)
	defer cancel()

	fullAlbum, err := client.GetAlbum(ctx, spotify.ID(ParseID(id, "album")))
	if err != nil {
		return nil, wrap(err)
	}

	album := &Album{
		ID:          fullAlbum.ID.String(),
		Name:        fullAlbum.Name,
		ReleaseDate: fullAlbum.ReleaseDate,
	}
	if len(fullAlbum.Artists) > 0 {
		album.Artist = fullAlbum.Artists[0].Name
	}
	for page := &fullAlbum.Tracks; ; {
		for _, track := range page.Tracks {
			album.Tracks = append(album.Tracks, fromSimpleTrack(track, fullAlbum.SimpleAlbum))
		}
		if err := client.NextPage(ctx, page); errors.Is(err, spotify.ErrNoMorePages) {
			break
		} else if err != nil {
			return nil, wrap(err)
		}
	}
	return album, nil
}

// SearchAlbums looks an album up by name and, optionally, artist,
// trying progressively looser queries and ranking the union of results.
func (client *Client) SearchAlbums(ctx context.Context, name, artist string) ([]AlbumHit, error) {
	ctx, cancel := client.context(ctx)
	defer cancel()

	queries := []string{name}
	if artist != "" {
		queries = []string{
			fmt.Sprintf(`album:"%s" artist:"%s"`, name, artist),
			name + " " + artist,
			name,
		}
	}

	var (
		seen = make(map[string]bool)
		hits []AlbumHit
		errs []error
	)
	for _, query := range queries {
		page, err := client.Search(ctx, query, spotify.SearchTypeAlbum, spotify.Limit(searchLimit))
		if err != nil {
			errs = append(errs, wrap(err))
			continue
		}
		if page.Albums == nil {
			continue
		}
		for _, album := range page.Albums.Albums {
			if seen[album.ID.String()] {
				continue
			}
			seen[album.ID.String()] = true
			hits = append(hits, AlbumHit{
				ID:          album.ID.String(),
				Name:        album.Name,
				Artists:     names(album.Artists),
				ReleaseDate: album.ReleaseDate,
			})
		}
	}
	if len(hits) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return RankAlbums(name, artist, hits), nil
}

// RankAlbums scores hits against the requested album and artist and
// returns the best ones first. Equal scores are ordered by how close
// the album name is to the requested one.
func RankAlbums(name, artist string, hits []AlbumHit) []AlbumHit {
	wantName, wantArtist := fold(name), fold(artist)
	for i := range hits {
		hits[i].Score = albumScore(wantName, wantArtist, hits[i])
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return levenshtein.ComputeDistance(wantName, fold(hits[i].Name)) <
			levenshtein.ComputeDistance(wantName, fold(hits[j].Name))
	})
	if len(hits) > albumSearchLimit {
		hits = hits[:albumSearchLimit]
	}
	return hits
}

func albumScore(name, artist string, hit AlbumHit) (score int) {
	hitName := fold(hit.Name)
	switch {
	case hitName == name:
		score += 100
	case hitName != "" && (strings.Contains(hitName, name) || strings.Contains(name, hitName)):
		score += 50
	}
	if artist == "" {
		return
	}
	for _, credited := range hit.Artists {
		credited = fold(credited)
		switch {
		case credited == artist:
			score += 80
		case credited != "" && (strings.Contains(credited, artist) || strings.Contains(artist, credited)):
			score += 40
		}
	}
	return
}

// ParseID extracts the catalog ID out of a share URL, a URI
// ("spotify:album:<id>") or returns the input when already an ID.
func ParseID(input, kind string) string {
	input = strings.TrimSpace(input)
	if _, rest, ok := strings.Cut(input, "spotify:"+kind+":"); ok {
		return rest
	}
	if _, rest, ok := strings.Cut(input, "open.spotify.com/"); ok {
		segments := strings.Split(strings.SplitN(rest, "?", 2)[0], "/")
		for i := 0; i < len(segments)-1; i++ {
			if segments[i] == kind {
				return segments[i+1]
			}
		}
	}
	return input
}
