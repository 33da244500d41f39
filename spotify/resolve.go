package spotify

import (
	"strings"

	"golang.org/x/text/cases"
)

// fallbackFloor is the weighted score the catalog's top result needs
// to be accepted when no result matched on title.
const fallbackFloor = 40

// Resolve picks the catalog record matching the requested track and
// artist among search results, trying in order: an exact title match,
// a title and artist containment match, and finally the catalog's own
// top result when it bears enough resemblance.
func Resolve(track, artist string, results []Result) (*Result, bool) {
	var (
		wantTrack  = fold(track)
		wantArtist = fold(artist)
	)
	if len(results) == 0 || wantTrack == "" {
		return nil, false
	}

	for i := range results {
		if fold(results[i].Title) == wantTrack {
			return &results[i], true
		}
	}

	for i := range results {
		if !strings.Contains(fold(results[i].Title), wantTrack) {
			continue
		}
		for _, credited := range results[i].Artists {
			if wantArtist != "" && strings.Contains(fold(credited), wantArtist) {
				return &results[i], true
			}
		}
	}

	top := &results[0]
	if resembles(top, wantTrack, wantArtist) && Weight(track, artist, top) >= fallbackFloor {
		return top, true
	}
	return nil, false
}

func resembles(result *Result, track, artist string) bool {
	title := fold(result.Title)
	if track != "" && title != "" && (strings.Contains(title, track) || strings.Contains(track, title)) {
		return true
	}
	for _, credited := range result.Artists {
		credited = fold(credited)
		if artist != "" && credited != "" && (strings.Contains(credited, artist) || strings.Contains(artist, credited)) {
			return true
		}
	}
	return false
}

// Weight rates how well a catalog record matches a (track, artist) query:
// title exact 100 or containment 50, best credited artist exact 80 or
// containment 40, plus up to 5 points of popularity.
func Weight(track, artist string, result *Result) (weight int) {
	var (
		wantTrack  = fold(track)
		wantArtist = fold(artist)
		title      = fold(result.Title)
	)
	switch {
	case title == wantTrack:
		weight += 100
	case title != "" && wantTrack != "" && (strings.Contains(title, wantTrack) || strings.Contains(wantTrack, title)):
		weight += 50
	}

	artistWeight := 0
	for _, credited := range result.Artists {
		credited = fold(credited)
		switch {
		case credited == wantArtist:
			artistWeight = max(artistWeight, 80)
		case wantArtist != "" && credited != "" && (strings.Contains(credited, wantArtist) || strings.Contains(wantArtist, credited)):
			artistWeight = max(artistWeight, 40)
		}
	}
	return weight + artistWeight + min(result.Popularity/10, 5)
}

func fold(s string) string {
	return strings.TrimSpace(cases.Fold().String(s))
}
