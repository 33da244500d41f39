// Package match picks the single best audio source for a track among
// noisy, untrusted video search results.
package match

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

const (
	// DurationTolerance is the maximum runtime deviation, in seconds,
	// a candidate may have from the expected track length.
	DurationTolerance = 15.0

	// Floors and early-accept thresholds are split on whether the target
	// carries an expected duration: the duration term alone contributes
	// up to 1000 points of the base score.
	KnownDurationFloor         = 800.0
	KnownDurationEarlyAccept   = 800.0
	UnknownDurationFloor       = 300.0
	UnknownDurationEarlyAccept = 400.0

	ReasonNoCandidate = "no suitable candidate"
	ReasonBadTarget   = "target lacks track or artist"
)

// Target is the track the caller is trying to find.
type Target struct {
	Track       string
	Artist      string
	Duration    float64 // expected runtime in seconds, if HasDuration
	HasDuration bool
}

// NewTarget returns a target without duration information.
func NewTarget(track, artist string) Target {
	return Target{Track: strings.TrimSpace(track), Artist: strings.TrimSpace(artist)}
}

// WithDuration returns a copy of the target expecting the given runtime.
// Non-positive durations are treated as unknown.
func (target Target) WithDuration(seconds float64) Target {
	if seconds > 0 {
		target.Duration = seconds
		target.HasDuration = true
	}
	return target
}

// Floor is the minimum score a candidate needs to be reported as a match.
func (target Target) Floor() float64 {
	if target.HasDuration {
		return KnownDurationFloor
	}
	return UnknownDurationFloor
}

// EarlyAccept is the score above which searching further is pointless.
func (target Target) EarlyAccept() float64 {
	if target.HasDuration {
		return KnownDurationEarlyAccept
	}
	return UnknownDurationEarlyAccept
}

// Candidate is one search result competing to become the audio source.
type Candidate struct {
	Title       string
	Duration    float64 // seconds, if HasDuration
	HasDuration bool
	Locator     string
	Uploader    string
}

// Result is the outcome of a selection: either a matched candidate
// or the reason nothing qualified.
type Result struct {
	Candidate *Candidate
	Score     float64
	Reason    string
	// Alternatives are the other candidates clearing the floor,
	// best first, to fall back on when the chosen source is unreachable.
	Alternatives []Candidate
}

func (result Result) Matched() bool {
	return result.Candidate != nil
}

// Rejection tells why a candidate was excluded before scoring.
type Rejection int

const (
	Accepted Rejection = iota
	RejectedDuration
	RejectedCategory
)

func (rejection Rejection) String() string {
	switch rejection {
	case RejectedDuration:
		return "duration"
	case RejectedCategory:
		return "category"
	default:
		return "accepted"
	}
}

// Verdict is the full judgement over a single candidate.
type Verdict struct {
	Candidate Candidate
	Rejection Rejection
	Diff      float64 // absolute duration difference, when both sides know it
	Score     float64
}

func (verdict Verdict) Rejected() bool {
	return verdict.Rejection != Accepted
}

// Select scores every candidate against target and returns the best one
// clearing the confidence floor. Ties go to the earliest candidate.
func Select(target Target, candidates []Candidate) Result {
	if target.Track == "" || target.Artist == "" {
		return Result{Reason: ReasonBadTarget}
	}

	ranked := Rank(target, candidates)
	if len(ranked) == 0 {
		return Result{Reason: ReasonNoCandidate}
	}
	result := Result{Candidate: &ranked[0].Candidate, Score: ranked[0].Score}
	for _, verdict := range ranked[1:] {
		result.Alternatives = append(result.Alternatives, verdict.Candidate)
	}
	return result
}

// Rank returns the verdicts of the candidates that pass every filter
// and clear the floor, by decreasing score, ties in input order.
func Rank(target Target, candidates []Candidate) []Verdict {
	var ranked []Verdict
	for _, candidate := range candidates {
		verdict := Judge(target, candidate)
		if verdict.Rejected() || !(verdict.Score >= target.Floor()) {
			continue
		}
		ranked = append(ranked, verdict)
	}
	slices.SortStableFunc(ranked, func(a, b Verdict) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}

// Explain judges every candidate, preserving input order.
func Explain(target Target, candidates []Candidate) []Verdict {
	verdicts := make([]Verdict, 0, len(candidates))
	for _, candidate := range candidates {
		verdicts = append(verdicts, Judge(target, candidate))
	}
	return verdicts
}

// NearMisses returns candidates that failed the duration gate by less
// than ten seconds beyond tolerance.
func NearMisses(target Target, candidates []Candidate) []Verdict {
	var misses []Verdict
	for _, verdict := range Explain(target, candidates) {
		if verdict.Rejection == RejectedDuration && verdict.Candidate.HasDuration &&
			verdict.Diff <= DurationTolerance+10 {
			misses = append(misses, verdict)
		}
	}
	return misses
}

// Judge applies the duration gate, the category filter and, for
// survivors, the scoring function.
func Judge(target Target, candidate Candidate) Verdict {
	verdict := Verdict{Candidate: candidate}
	if target.HasDuration && candidate.HasDuration {
		verdict.Diff = math.Abs(candidate.Duration - target.Duration)
	}

	// NaN differences must not slip through
	if target.HasDuration && (!candidate.HasDuration || !(verdict.Diff <= DurationTolerance)) {
		verdict.Rejection = RejectedDuration
		return verdict
	}
	if IsVisualRelease(candidate.Title) {
		verdict.Rejection = RejectedCategory
		return verdict
	}

	verdict.Score = Score(target, candidate)
	return verdict
}

// Score computes the heuristic score of a candidate. It does not apply
// the duration gate nor the category filter.
func Score(target Target, candidate Candidate) float64 {
	var (
		title  = fold(candidate.Title)
		track  = fold(target.Track)
		artist = fold(target.Artist)
		score  float64
	)

	if target.HasDuration && candidate.HasDuration {
		score = 1000 - 50*math.Abs(candidate.Duration-target.Duration)
	}

	if strings.Contains(title, "official audio") {
		score += 200
	} else if strings.Contains(title, "audio") {
		score += 100
	}
	if strings.Contains(title, "lyrics") {
		score += 50
	}
	if track != "" && strings.Contains(title, track) {
		score += 100
	}
	if artist != "" && strings.Contains(title, artist) {
		score += 100
	}

	return score + penalty(title, track)
}

func fold(s string) string {
	return cases.Fold().String(s)
}
