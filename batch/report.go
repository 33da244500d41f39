package batch

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/ppartarr/reel/entity"
	"github.com/ppartarr/reel/entity/playlist"
	"github.com/ppartarr/reel/util"
)

const reportPrefix = "_FAILED_DOWNLOADS_"

type Report struct {
	Name     string
	RunID    string
	Started  time.Time
	Total    int
	Outcomes []Outcome
}

func (report Report) Failures() (failures []Outcome) {
	for _, outcome := range report.Outcomes {
		if outcome.Failed() {
			failures = append(failures, outcome)
		}
	}
	return
}

func (report Report) Installed() (count int) {
	for _, outcome := range report.Outcomes {
		if outcome.Err == nil && !outcome.Skipped {
			count++
		}
	}
	return
}

func (report Report) Skipped() (count int) {
	for _, outcome := range report.Outcomes {
		if outcome.Skipped || errors.Is(outcome.Err, ErrUserCancelled) {
			count++
		}
	}
	return
}

// Tracks lists, in input order, the tracks that are on disk
// once the run is over.
func (report Report) Tracks() (tracks []*entity.Track) {
	for _, outcome := range report.Outcomes {
		if outcome.Err == nil && outcome.Track != nil {
			tracks = append(tracks, outcome.Track)
		}
	}
	return
}

// Mix writes the playlist file of the run into dir.
func (report Report) Mix(dir, encoding string) error {
	list := playlist.Playlist{Name: report.Name, Tracks: report.Tracks()}
	encoder, err := list.Encoder(dir, encoding)
	if err != nil {
		return err
	}
	for _, outcome := range report.Outcomes {
		if outcome.Err != nil || outcome.Track == nil {
			continue
		}
		if err := encoder.Add(outcome.Track, outcome.Path); err != nil {
			return errors.Join(err, encoder.Close())
		}
	}
	return encoder.Close()
}

// Write stores the failure report into dir and returns its path.
// Nothing is written when no item failed.
func (report Report) Write(dir string) (string, error) {
	failures := report.Failures()
	if len(failures) == 0 {
		return "", nil
	}

	name := slug.Make(report.Name)
	if name == "" {
		name = "batch"
	}
	path := filepath.Join(dir, reportPrefix+name+".txt")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Failed downloads for %s\n", report.Name)
	fmt.Fprintf(writer, "Run: %s\n", report.RunID)
	fmt.Fprintf(writer, "Date: %s\n", report.Started.Format(time.DateTime))
	fmt.Fprintf(writer, "Failed: %d/%d\n", len(failures), report.Total)
	fmt.Fprintln(writer, strings.Repeat("=", 60))
	for _, failure := range failures {
		track, artist := failure.Item.Track, failure.Item.Artist
		if failure.Track != nil {
			track, artist = failure.Track.Title, failure.Track.Artist()
		}
		fmt.Fprintf(writer, "\nTrack: %s\n", util.Fallback(track, "-"))
		fmt.Fprintf(writer, "Artist: %s\n", util.Fallback(artist, "-"))
		if failure.Item.URL != "" {
			fmt.Fprintf(writer, "URL: %s\n", failure.Item.URL)
		}
		fmt.Fprintf(writer, "Reason: %s\n", failure.Err)
		fmt.Fprintln(writer, strings.Repeat("-", 60))
	}
	if err := writer.Flush(); err != nil {
		return "", errors.Join(err, file.Close())
	}
	return path, file.Close()
}
