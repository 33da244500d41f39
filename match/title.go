package match

import (
	"regexp"
	"strings"
)

// UnknownArtist is used when a title cannot be split into artist and track.
const UnknownArtist = "Unknown Artist"

// Split is a video title decomposed into its artist and track parts.
// Track keeps featuring clauses for naming; SearchTrack drops them,
// as metadata catalogs rarely match on them.
type Split struct {
	Artist      string
	Track       string
	SearchTrack string
}

var (
	titleSeparators = []string{" - ", " – ", ": ", " | "}

	suffixPattern = regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:` + strings.Join([]string{
		`official\s+music\s+video`,
		`official\s+lyric\s+video`,
		`official\s+visuali[sz]er`,
		`official\s+video`,
		`official\s+audio`,
		`official`,
		`music\s+video`,
		`lyric\s+video`,
		`lyrics?`,
		`audio`,
		`visuali[sz]er`,
		`hd`,
		`4k`,
		`live`,
	}, "|") + `)\s*[\)\]]`)

	featuringPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:ft|feat|featuring)\b\.?[^\)\]]*[\)\]]`),
		regexp.MustCompile(`(?i)\s*\[\s*with\s[^\]]*\]`),
		regexp.MustCompile(`(?i)\s+(?:ft|feat|featuring)\b\.?\s.*$`),
	}

	spaces = regexp.MustCompile(`\s+`)
)

// SplitTitle decomposes a raw video title on the first separator found,
// trying them in order of preference. The first segment is the artist.
func SplitTitle(raw string) Split {
	var (
		title  = tidy(raw)
		artist = ""
		track  = title
	)
	for _, separator := range titleSeparators {
		if index := strings.Index(title, separator); index >= 0 {
			artist, track = title[:index], title[index+len(separator):]
			break
		}
	}

	stripped := StripSuffixes(track)
	if stripped == "" {
		// the track part was nothing but annotations, e.g. "Artist - (Official Video)"
		stripped = tidy(strings.Trim(track, "()[] "))
	}
	if stripped == "" {
		stripped = title
	}
	artist, track = StripSuffixes(artist), stripped
	if artist == "" {
		artist = UnknownArtist
	}
	return Split{
		Artist:      artist,
		Track:       track,
		SearchTrack: StripFeaturing(track),
	}
}

// StripSuffixes removes bracketed release annotations, e.g. "(Official Video)".
func StripSuffixes(s string) string {
	return tidy(suffixPattern.ReplaceAllString(s, ""))
}

// StripFeaturing removes featuring-artist clauses.
func StripFeaturing(s string) string {
	for _, pattern := range featuringPatterns {
		s = pattern.ReplaceAllString(s, "")
	}
	return tidy(s)
}

func tidy(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}
