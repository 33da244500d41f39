package match

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var blindingLights = NewTarget("Blinding Lights", "The Weeknd").WithDuration(200)

func candidate(title string, duration float64) Candidate {
	return Candidate{
		Title:       title,
		Duration:    duration,
		HasDuration: duration > 0,
		Locator:     "https://www.youtube.com/watch?v=" + title,
	}
}

func TestSelect(t *testing.T) {
	result := Select(blindingLights, []Candidate{
		candidate("The Weeknd - Blinding Lights (Official Audio)", 200),
		candidate("Blinding Lights Music Video", 203),
	})
	require.True(t, result.Matched())
	assert.Equal(t, "The Weeknd - Blinding Lights (Official Audio)", result.Candidate.Title)
	assert.Equal(t, 1400.0, result.Score)
}

func TestSelectEmpty(t *testing.T) {
	result := Select(blindingLights, nil)
	assert.False(t, result.Matched())
	assert.Equal(t, ReasonNoCandidate, result.Reason)

	result = Select(NewTarget("Blinding Lights", "The Weeknd"), []Candidate{})
	assert.False(t, result.Matched())
}

func TestSelectIncompleteTarget(t *testing.T) {
	result := Select(NewTarget("", "The Weeknd"), []Candidate{candidate("The Weeknd - Blinding Lights", 200)})
	assert.False(t, result.Matched())
	assert.Equal(t, ReasonBadTarget, result.Reason)
}

func TestSelectDurationGate(t *testing.T) {
	for _, duration := range []float64{0, 184, 216, 400} {
		t.Run(fmt.Sprint(duration), func(t *testing.T) {
			result := Select(blindingLights, []Candidate{
				candidate("The Weeknd - Blinding Lights (Official Audio) Lyrics", duration),
			})
			assert.False(t, result.Matched())
		})
	}

	// gate boundaries are inclusive
	for _, duration := range []float64{185, 215} {
		result := Select(blindingLights, []Candidate{
			candidate("The Weeknd - Blinding Lights (Official Audio)", duration),
		})
		assert.False(t, result.Matched(), "score %v below floor", 1000-50*15+400)
		assert.Equal(t, Accepted, Judge(blindingLights, candidate("x", duration)).Rejection)
	}
}

func TestSelectNonFiniteDuration(t *testing.T) {
	for _, duration := range []float64{math.NaN(), math.Inf(1)} {
		candidate := Candidate{Title: "The Weeknd - Blinding Lights (Official Audio)", Duration: duration, HasDuration: true}
		assert.Equal(t, RejectedDuration, Judge(blindingLights, candidate).Rejection)
		assert.False(t, Select(blindingLights, []Candidate{candidate}).Matched())
	}
}

func TestSelectAlternatives(t *testing.T) {
	result := Select(blindingLights, []Candidate{
		candidate("Blinding Lights", 212),
		candidate("The Weeknd - Blinding Lights (Audio)", 201),
		candidate("Blinding Lights Music Video", 200),
		candidate("The Weeknd - Blinding Lights (Official Audio)", 200),
		candidate("The Weeknd - Blinding Lights lyrics", 202),
	})
	require.True(t, result.Matched())
	assert.Equal(t, "The Weeknd - Blinding Lights (Official Audio)", result.Candidate.Title)

	var titles []string
	for _, alternative := range result.Alternatives {
		titles = append(titles, alternative.Title)
	}
	// the music video is rejected, the bare title stays below the floor
	assert.Equal(t, []string{"The Weeknd - Blinding Lights (Audio)", "The Weeknd - Blinding Lights lyrics"}, titles)
}

func TestSelectVisualRelease(t *testing.T) {
	for _, title := range []string{
		"The Weeknd - Blinding Lights (OFFICIAL VIDEO)",
		"The Weeknd - Blinding Lights [Official Music Video]",
		"Blinding Lights music video",
	} {
		t.Run(title, func(t *testing.T) {
			verdict := Judge(blindingLights, candidate(title, 200))
			assert.Equal(t, RejectedCategory, verdict.Rejection)
			assert.False(t, Select(blindingLights, []Candidate{candidate(title, 200)}).Matched())
		})
	}
}

func TestSelectTieBreak(t *testing.T) {
	first := candidate("The Weeknd - Blinding Lights", 200)
	second := candidate("The Weeknd - Blinding Lights", 200)
	second.Locator = "second"
	require.Equal(t, Score(blindingLights, first), Score(blindingLights, second))

	result := Select(blindingLights, []Candidate{first, second})
	require.True(t, result.Matched())
	assert.Equal(t, first.Locator, result.Candidate.Locator)
}

func TestSelectPure(t *testing.T) {
	candidates := []Candidate{
		candidate("Blinding Lights (Live)", 201),
		candidate("The Weeknd - Blinding Lights (Audio)", 199),
		candidate("Blinding Lights karaoke", 200),
	}
	assert.Equal(t, Select(blindingLights, candidates), Select(blindingLights, candidates))
}

func TestSelectUnknownDuration(t *testing.T) {
	target := NewTarget("Blinding Lights", "The Weeknd")
	result := Select(target, []Candidate{
		candidate("Blinding Lights", 0),
		candidate("The Weeknd - Blinding Lights (Official Audio)", 0),
	})
	require.True(t, result.Matched())
	assert.Equal(t, "The Weeknd - Blinding Lights (Official Audio)", result.Candidate.Title)
	assert.Equal(t, 400.0, result.Score)

	result = Select(target, []Candidate{candidate("Blinding Lights", 0)})
	assert.False(t, result.Matched(), "a bare title match is below the floor")
}

func TestScore(t *testing.T) {
	for _, tc := range []struct {
		target Target
		title  string
		score  float64
	}{
		{blindingLights, "The Weeknd - Blinding Lights (Official Audio)", 1400},
		{blindingLights, "The Weeknd - Blinding Lights (Audio)", 1300},
		{blindingLights, "The Weeknd - Blinding Lights (Lyrics)", 1250},
		{blindingLights, "Blinding Lights", 1100},
		{blindingLights, "something else", 1000},
		{blindingLights, "The Weeknd - Blinding Lights (cover)", 900},
		{blindingLights, "The Weeknd - Blinding Lights (Remix)", 900},
		{blindingLights, "The Weeknd - Blinding Lights (Live)", 1000},
		{blindingLights, "The Weeknd - Blinding Lights (Instrumental)", 800},
		{blindingLights, "The Weeknd - Blinding Lights (Karaoke)", 700},
		{NewTarget("Blinding Lights - Remix", "The Weeknd").WithDuration(200), "Blinding Lights - Remix", 1100},
		{NewTarget("Blinding Lights - Live", "The Weeknd").WithDuration(200), "Blinding Lights - Live", 1100},
		{NewTarget("Blinding Lights", "The Weeknd"), "The Weeknd - Blinding Lights", 200},
	} {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.score, Score(tc.target, candidate(tc.title, 200)))
		})
	}
}

func TestScoreDurationTerm(t *testing.T) {
	assert.Equal(t, 1000.0, Score(blindingLights, candidate("x", 200)))
	assert.Equal(t, 750.0, Score(blindingLights, candidate("x", 205)))
	assert.Equal(t, 750.0, Score(blindingLights, candidate("x", 195)))
}

func TestNearMisses(t *testing.T) {
	misses := NearMisses(blindingLights, []Candidate{
		candidate("close", 220),
		candidate("far", 260),
		candidate("inside", 205),
		candidate("unknown", 0),
	})
	require.Len(t, misses, 1)
	assert.Equal(t, "close", misses[0].Candidate.Title)
	assert.Equal(t, 20.0, misses[0].Diff)
}

func TestExplain(t *testing.T) {
	verdicts := Explain(blindingLights, []Candidate{
		candidate("Blinding Lights Official Video", 200),
		candidate("Blinding Lights", 300),
		candidate("Blinding Lights", 200),
	})
	require.Len(t, verdicts, 3)
	assert.Equal(t, RejectedCategory, verdicts[0].Rejection)
	assert.Equal(t, RejectedDuration, verdicts[1].Rejection)
	assert.Equal(t, "duration", verdicts[1].Rejection.String())
	assert.Equal(t, Accepted, verdicts[2].Rejection)
	assert.Equal(t, 1100.0, verdicts[2].Score)
}
