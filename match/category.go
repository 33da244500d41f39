package match

import "strings"

// visual releases usually carry a different master, intro/outro edits
// or a runtime that does not match the album cut
var visualReleasePhrases = []string{
	"music video",
	"official video",
	"official music video",
	"(official video)",
}

// IsVisualRelease reports whether a title denotes a music video.
func IsVisualRelease(title string) bool {
	title = fold(title)
	for _, phrase := range visualReleasePhrases {
		if strings.Contains(title, phrase) {
			return true
		}
	}
	return false
}

// penalty sums the score deductions for derivative versions.
// Remix and live versions are only penalised when the target track
// does not itself ask for them.
func penalty(title, track string) (points float64) {
	if strings.Contains(title, "cover") {
		points -= 300
	}
	if strings.Contains(title, "remix") && !strings.Contains(track, "remix") {
		points -= 300
	}
	if strings.Contains(title, "live") && !strings.Contains(track, "live") {
		points -= 200
	}
	if strings.Contains(title, "instrumental") {
		points -= 400
	}
	if strings.Contains(title, "karaoke") {
		points -= 500
	}
	return
}
