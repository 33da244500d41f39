package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ppartarr/reel/batch"
	"github.com/ppartarr/reel/spotify"
	"github.com/ppartarr/reel/util"
)

// collection is a named group of items installed into one directory
type collection struct {
	name  string
	dir   string
	items []batch.Item
	// mix writes a playlist file next to the tracks
	mix bool
}

func records(results []spotify.Result) []batch.Item {
	items := make([]batch.Item, 0, len(results))
	for _, result := range results {
		record := result.Track()
		items = append(items, batch.Item{Track: record.Title, Artist: record.Artist(), Record: record})
	}
	return items
}

// review shows the items about to be processed and lets the user
// drop some of them before confirming.
func (session *Session) review(items []batch.Item) ([]batch.Item, bool) {
	if len(items) < 2 {
		return items, true
	}
	session.Window.Printf("%s", itemsTable(items))
	if session.Headless {
		return items, true
	}

	for {
		answer := session.Window.Reads("Entries to remove (e.g. 1,3,5), empty to keep all:")
		indexes, err := parseSelection(answer, len(items))
		if err != nil {
			session.Window.AnchorPrintf("%s", err)
			continue
		}
		items = without(items, indexes)
		break
	}
	if len(items) == 0 {
		return nil, false
	}
	return items, session.confirm(true, "Download %d tracks?", len(items))
}

// warn prints the rows dropped while reading a batch file.
func (session *Session) warn(skipped []error) {
	for _, err := range skipped {
		session.Log.Warn().Err(err).Msg("entry skipped")
		session.Window.AnchorPrintf("%s", err)
	}
}

// sync installs a collection under the library lock, then writes
// the failure report and, if asked, the playlist file.
func (session *Session) sync(ctx context.Context, runner *batch.Runner, c collection) error {
	if len(c.items) == 0 {
		session.Window.Printf("nothing to download")
		return nil
	}
	items, ok := session.review(c.items)
	if !ok {
		session.Window.Printf("cancelled")
		return nil
	}

	unlock, err := batch.Lock(session.Config.Library.Path)
	if err != nil {
		return err
	}
	defer func() { util.ErrSuppress(unlock()) }()
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	lot := session.Window.Lot("index")
	lot.Printf("scanning")
	if err := session.Index.Build(session.Config.Library.Path); err != nil {
		session.Log.Warn().Err(err).Msg("library scan failed")
	}
	lot.Close(fmt.Sprintf("%d tracks in library", session.Index.Size()))

	report := runner.Run(ctx, c.name, c.dir, items)
	if path, err := report.Write(c.dir); err != nil {
		session.Log.Error().Err(err).Msg("cannot write failure report")
	} else if path != "" {
		session.Window.AnchorPrintf("%d failures, see %s", len(report.Failures()), path)
	}
	if c.mix {
		if err := report.Mix(c.dir, "m3u"); err != nil {
			return err
		}
	}
	session.Window.Printf("%s: %d installed, %d skipped, %d failed",
		c.name, report.Installed(), report.Skipped(), len(report.Failures()))
	return ctx.Err()
}
