// Package batch drives lookup, matching and installation over
// lists of tracks or URLs, one item at a time.
package batch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/ppartarr/reel/entity"
	"github.com/ppartarr/reel/entity/index"
	"github.com/ppartarr/reel/match"
	"github.com/ppartarr/reel/provider"
	"github.com/ppartarr/reel/util"
	"github.com/ppartarr/reel/util/anchor"
	"github.com/rs/zerolog"
)

const (
	// durationWarning is the runtime gap between a video and its
	// catalog entry above which the pairing gets flagged
	durationWarning = 10
	manualChoices   = 5
)

type Metadata interface {
	Record(ctx context.Context, track, artist string) (*entity.Track, error)
}

type Finder interface {
	Find(ctx context.Context, target match.Target) (match.Result, error)
	Top(ctx context.Context, track, artist string, limit int) ([]match.Candidate, error)
}

type Inspector interface {
	Inspect(ctx context.Context, locator string) (*provider.Video, error)
}

type Installer interface {
	Install(ctx context.Context, track *entity.Track, path string) error
}

// Item is a single unit of work: either a (track, artist) pair,
// optionally with its catalog record already known, or a URL.
type Item struct {
	Track  string
	Artist string
	URL    string
	Record *entity.Track
}

func (item Item) String() string {
	if item.URL != "" {
		return item.URL
	}
	return fmt.Sprintf("%s by %s", item.Track, item.Artist)
}

type Outcome struct {
	Item    Item
	Track   *entity.Track
	Path    string
	Skipped bool
	Err     error
}

// Failed tells whether the outcome belongs in the failure report.
func (outcome Outcome) Failed() bool {
	return outcome.Err != nil && !errors.Is(outcome.Err, ErrUserCancelled)
}

// Proposal is what the runner is about to install, handed over to
// the interaction shell before anything is downloaded.
type Proposal struct {
	Item      Item
	Track     *entity.Track
	Path      string
	Candidate *match.Candidate
	Score     float64
	Warnings  []string
	// Alternatives are installed in turn when fetching Candidate fails
	Alternatives []match.Candidate
	exists       bool
}

type Runner struct {
	Metadata  Metadata // optional for URL items
	Finder    Finder
	Inspector Inspector
	Installer Installer
	Index     *index.Index // optional, spots tracks installed elsewhere in the library

	// Decide confirms a proposal. A nil Decide accepts everything,
	// returning ErrUserCancelled skips the item.
	Decide func(*Proposal) error
	// Choose picks among raw search results when no catalog record
	// could be found. A nil Choose fails the item instead.
	Choose func(Item, []match.Candidate) (*match.Candidate, error)

	RunID  string
	Window *anchor.Window
	Log    zerolog.Logger
}

// Run processes items sequentially into dir. It stops early when ctx
// is cancelled, keeping the interrupted item in the report.
func (runner *Runner) Run(ctx context.Context, name, dir string, items []Item) Report {
	report := Report{Name: name, RunID: runner.RunID, Started: time.Now(), Total: len(items)}
	lot := runner.window().Lot("sync")
	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		lot.Printf("%d/%d %s", i+1, len(items), item)
		outcome := runner.Process(ctx, dir, item)
		report.Outcomes = append(report.Outcomes, outcome)
		runner.print(outcome)
	}
	lot.Close(fmt.Sprintf("%d installed, %d skipped, %d failed",
		report.Installed(), report.Skipped(), len(report.Failures())))
	return report
}

func (runner *Runner) print(outcome Outcome) {
	window := runner.window()
	switch {
	case outcome.Skipped:
		window.Printf("skip %s: already exists", outcome.Track)
	case errors.Is(outcome.Err, ErrUserCancelled):
		window.Printf("skip %s", outcome.Item)
	case outcome.Err != nil:
		window.AnchorPrintf("%s: %s", outcome.Item, outcome.Err)
	default:
		window.Printf("installed %s", outcome.Track)
	}
}

// Process runs a single item end to end.
func (runner *Runner) Process(ctx context.Context, dir string, item Item) (outcome Outcome) {
	log := runner.Log.With().Str("run", runner.RunID).Str("item", item.String()).Logger()
	outcome.Item = item

	proposal, err := runner.Plan(ctx, dir, item)
	if proposal != nil {
		outcome.Track, outcome.Path = proposal.Track, proposal.Path
	}
	if err != nil {
		log.Warn().Err(err).Msg("item failed")
		outcome.Err = err
		return
	}
	if proposal.exists {
		log.Info().Str("path", proposal.Path).Msg("already installed")
		outcome.Skipped = true
		return
	}

	for _, warning := range proposal.Warnings {
		log.Warn().Msg(warning)
	}
	if runner.Decide != nil {
		if err := runner.Decide(proposal); err != nil {
			outcome.Err = err
			return
		}
	}

	log.Info().Str("source", proposal.Track.UpstreamURL).Float64("score", proposal.Score).Msg("installing")
	err = runner.Installer.Install(ctx, proposal.Track, proposal.Path)
	for _, alternative := range proposal.Alternatives {
		if !errors.Is(err, ErrFetchFailed) || ctx.Err() != nil {
			break
		}
		log.Warn().Err(err).Str("next", alternative.Locator).Msg("fetch failed, trying next match")
		runner.window().Printf("%s unreachable, trying %s", proposal.Track.UpstreamURL, alternative.Title)
		proposal.Track.UpstreamURL = alternative.Locator
		err = runner.Installer.Install(ctx, proposal.Track, proposal.Path)
	}
	if err != nil {
		log.Warn().Err(err).Msg("install failed")
		outcome.Err = err
	}
	return
}

// Plan resolves metadata and audio source for item without
// downloading anything.
func (runner *Runner) Plan(ctx context.Context, dir string, item Item) (*Proposal, error) {
	if item.URL != "" {
		return runner.planURL(ctx, dir, item)
	}
	return runner.planTrack(ctx, dir, item)
}

func (runner *Runner) planTrack(ctx context.Context, dir string, item Item) (*Proposal, error) {
	track := item.Record
	if track == nil {
		if runner.Metadata == nil {
			return nil, ErrNoMetadataMatch
		}
		record, err := runner.Metadata.Record(ctx, item.Track, item.Artist)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return runner.planManual(ctx, dir, item, err)
		}
		track = record
	}

	proposal := &Proposal{Item: item, Track: track, Path: filepath.Join(dir, track.Path().Final())}
	if runner.exists(proposal) {
		return proposal, nil
	}

	// the catalog spelling is what the upload titles are compared against
	target := match.NewTarget(track.Title, track.Artist())
	if track.Duration > 0 {
		target = target.WithDuration(float64(track.Duration))
	}
	result, err := runner.Finder.Find(ctx, target)
	if err != nil {
		if ctx.Err() != nil {
			return proposal, ctx.Err()
		}
		return proposal, fmt.Errorf("%w: %w", ErrNoCandidateMatch, err)
	}
	if !result.Matched() {
		return proposal, fmt.Errorf("%w: %s", ErrNoCandidateMatch, result.Reason)
	}

	track.UpstreamURL = result.Candidate.Locator
	proposal.Candidate, proposal.Score = result.Candidate, result.Score
	proposal.Alternatives = result.Alternatives
	return proposal, nil
}

// planManual falls back on raw search results for the user to pick
// from when the catalog knows nothing about the item.
func (runner *Runner) planManual(ctx context.Context, dir string, item Item, cause error) (*Proposal, error) {
	failure := fmt.Errorf("%w: %w", ErrNoMetadataMatch, cause)
	if runner.Choose == nil {
		return nil, failure
	}

	candidates, err := runner.Finder.Top(ctx, item.Track, item.Artist, manualChoices)
	if err != nil || len(candidates) == 0 {
		return nil, failure
	}
	candidate, err := runner.Choose(item, candidates)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, failure
	}

	track := (&entity.Track{
		Title:       item.Track,
		Artists:     []string{item.Artist},
		Duration:    int(candidate.Duration),
		UpstreamURL: candidate.Locator,
	}).Minimal()
	proposal := &Proposal{
		Item:      item,
		Track:     track,
		Path:      filepath.Join(dir, track.Path().Final()),
		Candidate: candidate,
		Warnings:  []string{"no catalog metadata, tagging with minimal information"},
	}
	runner.exists(proposal)
	return proposal, nil
}

func (runner *Runner) planURL(ctx context.Context, dir string, item Item) (*Proposal, error) {
	video, err := runner.Inspector.Inspect(ctx, item.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	var (
		warnings []string
		split    = match.SplitTitle(video.Title)
		artist   = split.Artist
		track    *entity.Track
	)
	if match.IsVisualRelease(video.Title) {
		warnings = append(warnings, fmt.Sprintf("%q looks like a music video, audio may differ from the studio release", video.Title))
	}
	if artist == match.UnknownArtist {
		artist = ""
	}

	if runner.Metadata != nil {
		record, err := runner.Metadata.Record(ctx, split.SearchTrack, artist)
		switch {
		case err == nil:
			track = record
			if video.Duration > 0 && track.Duration > 0 {
				if diff := math.Abs(video.Duration - float64(track.Duration)); diff > durationWarning {
					warnings = append(warnings, fmt.Sprintf("video runtime differs from %s by %.0fs", track, diff))
				}
			}
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			runner.Log.Debug().Err(err).Str("title", video.Title).Msg("no catalog record for video")
		}
	}
	if track == nil {
		track = (&entity.Track{
			Title:    split.Track,
			Artists:  []string{split.Artist},
			Duration: int(video.Duration),
			Year:     video.Year(),
			Artwork:  entity.Artwork{URL: video.Thumbnail},
		}).Minimal()
		warnings = append(warnings, "no catalog metadata, tagging with minimal information")
	}
	track.UpstreamURL = util.Fallback(video.URL, item.URL)

	candidate := video.Candidate()
	proposal := &Proposal{
		Item:      item,
		Track:     track,
		Path:      filepath.Join(dir, track.Path().Final()),
		Candidate: &candidate,
		Warnings:  warnings,
	}
	runner.exists(proposal)
	return proposal, nil
}

// exists flags the proposal when its track is already in the library,
// either at the target path, under its catalog ID or under a nearly
// identical file name elsewhere. Path then points to the existing file.
func (runner *Runner) exists(proposal *Proposal) bool {
	path, found := proposal.Path, util.FileExists(proposal.Path)
	if !found && runner.Index != nil {
		if proposal.Track.ID != "" {
			path, found = runner.Index.Lookup(proposal.Track.ID)
		}
		if !found {
			path, found = runner.Index.Similar(proposal.Track.Path().Final())
		}
	}
	if found {
		proposal.Path, proposal.exists = path, true
	}
	return found
}

func (runner *Runner) window() *anchor.Window {
	if runner.Window == nil {
		runner.Window = anchor.New(anchor.Red)
	}
	return runner.Window
}
