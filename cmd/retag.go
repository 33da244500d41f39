package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ppartarr/reel/batch"
	"github.com/ppartarr/reel/entity/index"
	"github.com/ppartarr/reel/match"
	"github.com/ppartarr/reel/processor"
	"github.com/ppartarr/reel/spotify"
	"github.com/ppartarr/reel/util"
	"github.com/spf13/cobra"
)

func init() {
	cmdRoot.AddCommand(cmdRetag())
}

func cmdRetag() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retag [dir]",
		Short: "Tag local MP3 files lacking catalog metadata",
		Long: `Tag local MP3 files lacking catalog metadata.

Files are looked up by their name, either "<artist> - <track>.mp3" or
"<track> - <artist>.mp3", and tagged with the best catalog match.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				ctx     = cmd.Context()
				session = sessionOf(cmd)
				dir     = session.Config.Library.Path
				rename  = util.ErrWrap(false)(cmd.Flags().GetBool("rename"))
			)
			if len(args) > 0 {
				dir = args[0]
			}

			client, err := session.Spotify(ctx)
			if err != nil {
				return err
			}
			unlock, err := batch.Lock(session.Config.Library.Path)
			if err != nil {
				return err
			}
			defer func() { util.ErrSuppress(unlock()) }()

			lot := session.Window.Lot("index")
			lot.Printf("scanning %s", dir)
			if err := session.Index.Build(dir); err != nil {
				lot.Release()
				return err
			}
			paths := session.Index.Paths(index.Offline)
			lot.Close(fmt.Sprintf("%d tracks, %d untagged", session.Index.Size(), len(paths)))

			var tagged, failed int
			for _, path := range paths {
				if ctx.Err() != nil {
					break
				}
				switch err := session.retag(ctx, client, path, rename); {
				case err == nil:
					tagged++
				case errors.Is(err, batch.ErrUserCancelled):
					session.Window.Printf("skip %s", filepath.Base(path))
				default:
					failed++
					session.Log.Warn().Err(err).Str("path", path).Msg("retag failed")
					session.Window.AnchorPrintf("%s: %s", filepath.Base(path), err)
				}
			}
			session.Window.Printf("%d tagged, %d failed", tagged, failed)
			return ctx.Err()
		},
	}
	cmd.Flags().Bool("rename", false, `Rename tagged files to "<track> - <artist>.mp3"`)
	return cmd
}

func (session *Session) retag(ctx context.Context, client *spotify.Client, path string, rename bool) error {
	split := match.SplitTitle(util.FileBaseStem(path))
	record, err := client.Record(ctx, split.SearchTrack, split.Artist)
	if err != nil && split.Artist != match.UnknownArtist {
		// the other naming convention
		record, err = client.Record(ctx, match.StripFeaturing(split.Artist), split.Track)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", batch.ErrNoMetadataMatch, err)
	}
	if !session.confirm(true, "Tag %s as %s?", filepath.Base(path), record) {
		return batch.ErrUserCancelled
	}

	if record.Artwork.URL != "" {
		artwork := make(chan []byte, 1)
		if err := session.Downloader.Download(ctx, record.Artwork.URL, record.Path().Artwork(), processor.Artwork{}, artwork); err == nil {
			record.Artwork.Data = <-artwork
		}
	}
	if session.Lyrics != nil {
		if lyrics, err := session.Lyrics.Search(ctx, record); err == nil {
			record.Lyrics = lyrics
		}
	}
	if err := (processor.Encoder{Track: record}).Do(path); err != nil {
		return err
	}

	target := path
	if rename {
		target = filepath.Join(filepath.Dir(path), record.Path().Final())
		if target != path {
			if err := util.FileMoveOrCopy(path, target); err != nil {
				return err
			}
		}
	}
	session.Index.Set(record, target, index.Flush)
	session.Window.Printf("tagged %s", record)
	return nil
}
