package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppartarr/reel/entity"
	"github.com/ppartarr/reel/entity/index"
	"github.com/ppartarr/reel/match"
	"github.com/ppartarr/reel/provider"
	"github.com/ppartarr/reel/util/anchor"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalog map[string]*entity.Track

func (catalog catalog) Record(_ context.Context, track, artist string) (*entity.Track, error) {
	if record, ok := catalog[track+"|"+artist]; ok {
		clone := *record
		return &clone, nil
	}
	return nil, errors.New("no matching track")
}

type finder struct {
	results map[string][]match.Candidate
	top     []match.Candidate
	targets []match.Target
}

func (finder *finder) Find(_ context.Context, target match.Target) (match.Result, error) {
	finder.targets = append(finder.targets, target)
	return match.Select(target, finder.results[target.Track]), nil
}

func (finder *finder) Top(_ context.Context, _, _ string, limit int) ([]match.Candidate, error) {
	return finder.top, nil
}

type inspector map[string]*provider.Video

func (inspector inspector) Inspect(_ context.Context, locator string) (*provider.Video, error) {
	if video, ok := inspector[locator]; ok {
		return video, nil
	}
	return nil, errors.New("ERROR: Video unavailable")
}

type installer struct {
	installed []*entity.Track
	attempts  []string
	fail      map[string]error
	hook      func() error
}

func (installer *installer) Install(_ context.Context, track *entity.Track, path string) error {
	installer.attempts = append(installer.attempts, track.UpstreamURL)
	if installer.hook != nil {
		if err := installer.hook(); err != nil {
			return err
		}
	}
	if err, ok := installer.fail[track.UpstreamURL]; ok {
		return err
	}
	installer.installed = append(installer.installed, track)
	return os.WriteFile(path, []byte(track.UpstreamURL), 0o644)
}

var blindingLights = &entity.Track{
	ID:       "0VjIjW4GlUZAMYd2vXMi3b",
	Title:    "Blinding Lights",
	Artists:  []string{"The Weeknd"},
	Album:    "After Hours",
	Duration: 200,
	Number:   9,
	Disc:     1,
	Year:     2020,
}

func newRunner() (*Runner, *finder, *installer) {
	var (
		finder = &finder{results: map[string][]match.Candidate{
			"Blinding Lights": {
				{Title: "Blinding Lights Music Video", Duration: 203, HasDuration: true, Locator: "https://youtu.be/video"},
				{Title: "The Weeknd - Blinding Lights (Official Audio)", Duration: 200, HasDuration: true, Locator: "https://youtu.be/audio"},
			},
			"Save Your Tears": {
				{Title: "The Weeknd - Save Your Tears (Official Music Video)", Duration: 215, HasDuration: true, Locator: "https://youtu.be/tears"},
			},
		}}
		installer = &installer{}
	)
	return &Runner{
		Metadata: catalog{
			"Blinding Lights|The Weeknd": blindingLights,
			"Save Your Tears|The Weeknd": {Title: "Save Your Tears", Artists: []string{"The Weeknd"}, Duration: 215},
		},
		Finder:    finder,
		Installer: installer,
		RunID:     "run",
		Window:    anchor.NewWithIO(io.Discard, strings.NewReader(""), anchor.Red, false),
		Log:       zerolog.Nop(),
	}, finder, installer
}

func TestRun(t *testing.T) {
	var (
		dir                       = t.TempDir()
		runner, finder, installer = newRunner()
		items                     = []Item{
			{Track: "Blinding Lights", Artist: "The Weeknd"},
			{Track: "Unknown Song", Artist: "Nobody"},
			{Track: "Save Your Tears", Artist: "The Weeknd"},
		}
	)

	report := runner.Run(context.Background(), "run", dir, items)
	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, 1, report.Installed())
	assert.Len(t, report.Failures(), 2)
	assert.ErrorIs(t, report.Outcomes[1].Err, ErrNoMetadataMatch)
	assert.ErrorIs(t, report.Outcomes[2].Err, ErrNoCandidateMatch)

	require.Len(t, installer.installed, 1)
	assert.Equal(t, "https://youtu.be/audio", installer.installed[0].UpstreamURL)
	assert.FileExists(t, filepath.Join(dir, "Blinding Lights - The Weeknd.mp3"))

	require.NotEmpty(t, finder.targets)
	assert.Equal(t, match.NewTarget("Blinding Lights", "The Weeknd").WithDuration(200), finder.targets[0])
}

func TestRunSkipsExisting(t *testing.T) {
	var (
		dir                  = t.TempDir()
		runner, _, installer = newRunner()
		items                = []Item{{Track: "Blinding Lights", Artist: "The Weeknd"}}
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Blinding Lights - The Weeknd.mp3"), nil, 0o644))

	report := runner.Run(context.Background(), "run", dir, items)
	require.Len(t, report.Outcomes, 1)
	assert.True(t, report.Outcomes[0].Skipped)
	assert.Equal(t, 1, report.Skipped())
	assert.Empty(t, installer.installed)
}

func TestRunSkipsIndexed(t *testing.T) {
	var (
		library              = t.TempDir()
		album                = filepath.Join(library, "Albums", "After Hours", "Blinding Lights - The Weeknd.mp3")
		renamed              = filepath.Join(library, "Albums", "Misc", "save your tears - the weeknd.mp3")
		runner, _, installer = newRunner()
	)
	runner.Index = index.New()
	runner.Index.Set(blindingLights, album, index.Installed)
	runner.Index.SetPath(renamed, index.Offline)

	report := runner.Run(context.Background(), "run", filepath.Join(library, "Singles"), []Item{
		{Track: "Blinding Lights", Artist: "The Weeknd"},
		{Track: "Save Your Tears", Artist: "The Weeknd"},
	})
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, 2, report.Skipped())
	assert.Equal(t, album, report.Outcomes[0].Path)
	assert.Equal(t, renamed, report.Outcomes[1].Path)
	assert.Empty(t, installer.attempts)
}

func TestRunFallsBackOnFetchFailure(t *testing.T) {
	var (
		dir            = t.TempDir()
		runner, f, _   = newRunner()
		install, songs = pipeline(map[string][]byte{
			"https://youtu.be/lyrics": bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x64}, 32),
		}, "")
	)
	f.results["Blinding Lights"] = append(f.results["Blinding Lights"],
		match.Candidate{Title: "The Weeknd - Blinding Lights (Lyrics)", Duration: 201, HasDuration: true, Locator: "https://youtu.be/lyrics"})
	runner.Installer = install

	outcome := runner.Process(context.Background(), dir, Item{Track: "Blinding Lights", Artist: "The Weeknd"})
	require.NoError(t, outcome.Err)
	assert.Equal(t, "https://youtu.be/lyrics", outcome.Track.UpstreamURL)
	assert.FileExists(t, outcome.Path)
	status, ok := songs.Get(outcome.Path)
	assert.True(t, ok)
	assert.Equal(t, index.Installed, status)
}

func TestRunFetchFailures(t *testing.T) {
	runner, f, installer := newRunner()
	f.results["Blinding Lights"] = append(f.results["Blinding Lights"],
		match.Candidate{Title: "The Weeknd - Blinding Lights (Lyrics)", Duration: 201, HasDuration: true, Locator: "https://youtu.be/lyrics"})
	installer.fail = map[string]error{
		"https://youtu.be/audio":  fmt.Errorf("%w: HTTP Error 403: Forbidden", ErrFetchFailed),
		"https://youtu.be/lyrics": fmt.Errorf("%w: Sign in to confirm your age", ErrFetchFailed),
	}

	outcome := runner.Process(context.Background(), t.TempDir(), Item{Track: "Blinding Lights", Artist: "The Weeknd"})
	assert.ErrorIs(t, outcome.Err, ErrFetchFailed)
	assert.ErrorContains(t, outcome.Err, "confirm your age")
	assert.Equal(t, []string{"https://youtu.be/audio", "https://youtu.be/lyrics"}, installer.attempts)

	// only fetch failures move on to the next match
	installer.attempts = nil
	installer.fail["https://youtu.be/audio"] = errors.New("tag: disk full")
	outcome = runner.Process(context.Background(), t.TempDir(), Item{Track: "Blinding Lights", Artist: "The Weeknd"})
	assert.ErrorContains(t, outcome.Err, "disk full")
	assert.Equal(t, []string{"https://youtu.be/audio"}, installer.attempts)
}

func TestRunRecord(t *testing.T) {
	var (
		runner, _, installer = newRunner()
		record               = *blindingLights
	)
	runner.Metadata = nil

	outcome := runner.Process(context.Background(), t.TempDir(), Item{Record: &record})
	require.NoError(t, outcome.Err)
	assert.Same(t, &record, installer.installed[0])
}

func TestRunDecide(t *testing.T) {
	runner, _, installer := newRunner()
	var proposals []*Proposal
	runner.Decide = func(proposal *Proposal) error {
		proposals = append(proposals, proposal)
		return ErrUserCancelled
	}

	report := runner.Run(context.Background(), "run", t.TempDir(), []Item{{Track: "Blinding Lights", Artist: "The Weeknd"}})
	require.Len(t, proposals, 1)
	assert.Equal(t, "https://youtu.be/audio", proposals[0].Candidate.Locator)
	assert.Equal(t, 1400.0, proposals[0].Score)
	assert.Empty(t, report.Failures())
	assert.Equal(t, 1, report.Skipped())
	assert.Empty(t, installer.installed)
}

func TestRunManual(t *testing.T) {
	runner, finder, installer := newRunner()
	finder.top = []match.Candidate{
		{Title: "Nobody - Unknown Song (live)", Locator: "https://youtu.be/live"},
		{Title: "Nobody - Unknown Song", Duration: 180, HasDuration: true, Locator: "https://youtu.be/studio"},
	}
	runner.Choose = func(item Item, candidates []match.Candidate) (*match.Candidate, error) {
		assert.Equal(t, "Unknown Song", item.Track)
		return &candidates[1], nil
	}

	outcome := runner.Process(context.Background(), t.TempDir(), Item{Track: "Unknown Song", Artist: "Nobody"})
	require.NoError(t, outcome.Err)
	require.Len(t, installer.installed, 1)
	track := installer.installed[0]
	assert.Equal(t, "https://youtu.be/studio", track.UpstreamURL)
	assert.Equal(t, entity.UnknownAlbum, track.Album)
	assert.Equal(t, 180, track.Duration)
	assert.Equal(t, 1, track.Number)

	runner.Choose = func(Item, []match.Candidate) (*match.Candidate, error) { return nil, ErrUserCancelled }
	outcome = runner.Process(context.Background(), t.TempDir(), Item{Track: "Unknown Song", Artist: "Nobody"})
	assert.ErrorIs(t, outcome.Err, ErrUserCancelled)
	assert.False(t, outcome.Failed())
}

func TestRunURL(t *testing.T) {
	runner, _, installer := newRunner()
	runner.Inspector = inspector{
		"https://youtu.be/4NRXx6U8ABQ": {
			ID:         "4NRXx6U8ABQ",
			Title:      "The Weeknd - Blinding Lights (Official Video)",
			Duration:   262,
			Thumbnail:  "https://i.ytimg.com/vi/4NRXx6U8ABQ/maxresdefault.jpg",
			UploadDate: "20200121",
			URL:        "https://www.youtube.com/watch?v=4NRXx6U8ABQ",
		},
	}
	var proposal *Proposal
	runner.Decide = func(p *Proposal) error {
		proposal = p
		return nil
	}

	dir := t.TempDir()
	outcome := runner.Process(context.Background(), dir, Item{URL: "https://youtu.be/4NRXx6U8ABQ"})
	require.NoError(t, outcome.Err)
	require.NotNil(t, proposal)
	assert.Len(t, proposal.Warnings, 2)
	assert.Equal(t, filepath.Join(dir, "Blinding Lights - The Weeknd.mp3"), outcome.Path)
	assert.Equal(t, "After Hours", installer.installed[0].Album)
	assert.Equal(t, "https://www.youtube.com/watch?v=4NRXx6U8ABQ", installer.installed[0].UpstreamURL)

	outcome = runner.Process(context.Background(), dir, Item{URL: "https://youtu.be/missing"})
	assert.ErrorIs(t, outcome.Err, ErrFetchFailed)
}

func TestRunURLMinimal(t *testing.T) {
	runner, _, installer := newRunner()
	runner.Metadata = nil
	runner.Inspector = inspector{
		"https://youtu.be/song": {
			Title:      "Artist Name - Song (feat. Other Artist) [Official Audio]",
			Duration:   181.5,
			Thumbnail:  "https://i.ytimg.com/vi/song/hqdefault.jpg",
			UploadDate: "20190412",
		},
	}

	outcome := runner.Process(context.Background(), t.TempDir(), Item{URL: "https://youtu.be/song"})
	require.NoError(t, outcome.Err)
	track := installer.installed[0]
	assert.Equal(t, "Song (feat. Other Artist)", track.Title)
	assert.Equal(t, "Artist Name", track.Artist())
	assert.Equal(t, entity.UnknownAlbum, track.Album)
	assert.Equal(t, 2019, track.Year)
	assert.Equal(t, 181, track.Duration)
	assert.Equal(t, "https://i.ytimg.com/vi/song/hqdefault.jpg", track.Artwork.URL)
	assert.Equal(t, "https://youtu.be/song", track.UpstreamURL)
}

func TestRunInterrupted(t *testing.T) {
	var (
		runner, _, installer = newRunner()
		ctx, cancel          = context.WithCancel(context.Background())
	)
	defer cancel()
	installer.hook = func() error {
		cancel()
		return context.Canceled
	}

	report := runner.Run(ctx, "run", t.TempDir(), []Item{
		{Track: "Blinding Lights", Artist: "The Weeknd"},
		{Track: "Save Your Tears", Artist: "The Weeknd"},
	})
	require.Len(t, report.Outcomes, 1)
	assert.ErrorIs(t, report.Outcomes[0].Err, context.Canceled)
	assert.Len(t, report.Failures(), 1)
	assert.Equal(t, 2, report.Total)
}
