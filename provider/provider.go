// Package provider looks for audio sources on the video platform.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppartarr/reel/match"
	"github.com/rs/zerolog"
)

// Searcher runs a free-text query against a video platform.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]match.Candidate, error)
}

// phrasings are appended to "<track> <artist>", most specific first
var phrasings = []string{"official audio", "audio", "lyrics"}

// Finder escalates through increasingly generic queries until
// a candidate scores above the early-accept threshold.
type Finder struct {
	searcher Searcher
	limit    int
	log      zerolog.Logger
}

func NewFinder(searcher Searcher, limit int, log zerolog.Logger) *Finder {
	return &Finder{searcher, limit, log}
}

// Find returns the best candidate for target. Candidates seen across
// phrasings are pooled, first occurrence wins on duplicate locators.
func (finder *Finder) Find(ctx context.Context, target match.Target) (match.Result, error) {
	var (
		pool   []match.Candidate
		seen   = make(map[string]bool)
		result = match.Result{Reason: match.ReasonNoCandidate}
		errs   []error
	)
	for _, phrasing := range phrasings {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		query := fmt.Sprintf("%s %s %s", target.Track, target.Artist, phrasing)
		candidates, err := finder.searcher.Search(ctx, query, finder.limit)
		if err != nil {
			finder.log.Warn().Err(err).Str("query", query).Msg("search failed")
			errs = append(errs, err)
			continue
		}
		for _, candidate := range candidates {
			if !seen[candidate.Locator] {
				seen[candidate.Locator] = true
				pool = append(pool, candidate)
			}
		}

		result = match.Select(target, pool)
		finder.log.Debug().
			Str("query", query).
			Int("candidates", len(pool)).
			Float64("score", result.Score).
			Bool("matched", result.Matched()).
			Msg("search round")
		if result.Matched() && result.Score >= target.EarlyAccept() {
			return result, nil
		}
	}

	if !result.Matched() {
		for _, miss := range match.NearMisses(target, pool) {
			finder.log.Info().
				Str("title", miss.Candidate.Title).
				Float64("diff", miss.Diff).
				Msg("near miss, duration outside tolerance")
		}
		if len(errs) == len(phrasings) {
			return result, errors.Join(errs...)
		}
	}
	return result, nil
}

// Top returns the first limit results of a bare "<track> <artist>" query,
// for the user to pick from when no metadata could be found.
func (finder *Finder) Top(ctx context.Context, track, artist string, limit int) ([]match.Candidate, error) {
	candidates, err := finder.searcher.Search(ctx, track+" "+artist, limit)
	if err != nil {
		return nil, err
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
