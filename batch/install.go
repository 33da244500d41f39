package batch

import (
	"context"
	"fmt"

	"github.com/arunsworld/nursery"
	"github.com/ppartarr/reel/entity"
	"github.com/ppartarr/reel/entity/index"
	"github.com/ppartarr/reel/processor"
	"github.com/ppartarr/reel/util"
	"github.com/ppartarr/reel/util/anchor"
	"github.com/rs/zerolog"
)

type Downloader interface {
	Download(ctx context.Context, url, path string, p processor.Processor, channels ...chan []byte) error
}

type Lyrics interface {
	Search(ctx context.Context, track *entity.Track) (string, error)
}

// Pipeline fetches the audio blob of a track together with its
// lyrics and artwork, tags it and moves it into the library.
// Only the audio fetch is fatal.
type Pipeline struct {
	Downloader Downloader
	Lyrics     Lyrics // nil disables lyrics
	Index      *index.Index
	Window     *anchor.Window
	Log        zerolog.Logger
}

func (pipeline *Pipeline) Install(ctx context.Context, track *entity.Track, path string) error {
	pipeline.window()
	download := track.Path().Download()
	if err := nursery.RunConcurrently(
		pipeline.collectAsset(ctx, track, download),
		pipeline.collectLyrics(ctx, track),
		pipeline.collectArtwork(ctx, track),
	); err != nil {
		return err
	}

	lot := pipeline.window().Lot("process")
	lot.Printf("%s", track)
	if err := (processor.Encoder{Track: track}).Do(download); err != nil {
		lot.Release()
		return fmt.Errorf("tag %s: %w", track, err)
	}
	lot.Release()

	if err := util.FileMoveOrCopy(download, path); err != nil {
		return fmt.Errorf("install %s: %w", track, err)
	}
	if pipeline.Index != nil {
		pipeline.Index.Set(track, path, index.Installed)
	}
	return nil
}

// collectAsset pulls the audio blob
func (pipeline *Pipeline) collectAsset(ctx context.Context, track *entity.Track, download string) func(context.Context, chan error) {
	return func(_ context.Context, ch chan error) {
		lot := pipeline.window().Lot("download")
		lot.Print(track.UpstreamURL)
		defer lot.Release()
		if err := pipeline.Downloader.Download(ctx, track.UpstreamURL, download, nil); err != nil {
			if ctx.Err() != nil {
				ch <- ctx.Err()
				return
			}
			ch <- fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
	}
}

// collectLyrics pulls lyrics to be embedded in the blob
func (pipeline *Pipeline) collectLyrics(ctx context.Context, track *entity.Track) func(context.Context, chan error) {
	return func(context.Context, chan error) {
		if pipeline.Lyrics == nil {
			return
		}
		lot := pipeline.window().Lot("compose")
		lot.Printf("%s", track)
		defer lot.Release()
		lyrics, err := pipeline.Lyrics.Search(ctx, track)
		if err != nil {
			pipeline.Log.Debug().Err(err).Str("track", track.String()).Msg("lyrics unavailable")
			return
		}
		track.Lyrics = lyrics
		pipeline.Log.Debug().Str("track", track.String()).Str("lyrics", util.Excerpt(lyrics)).Msg("lyrics found")
	}
}

// collectArtwork pulls the cover to be embedded in the blob
func (pipeline *Pipeline) collectArtwork(ctx context.Context, track *entity.Track) func(context.Context, chan error) {
	return func(context.Context, chan error) {
		if track.Artwork.URL == "" {
			return
		}
		lot := pipeline.window().Lot("paint")
		lot.Printf("%s", track)
		defer lot.Release()

		artwork := make(chan []byte, 1)
		if err := pipeline.Downloader.Download(ctx, track.Artwork.URL, track.Path().Artwork(), processor.Artwork{}, artwork); err != nil {
			pipeline.Log.Debug().Err(err).Str("url", track.Artwork.URL).Msg("artwork unavailable")
			return
		}
		track.Artwork.Data = <-artwork
		pipeline.Log.Debug().Str("track", track.String()).Str("size", util.HumanizeBytes(len(track.Artwork.Data))).Msg("artwork found")
	}
}

func (pipeline *Pipeline) window() *anchor.Window {
	if pipeline.Window == nil {
		pipeline.Window = anchor.New(anchor.Red)
	}
	return pipeline.Window
}
