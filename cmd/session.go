package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/ppartarr/reel/batch"
	"github.com/ppartarr/reel/config"
	"github.com/ppartarr/reel/downloader"
	"github.com/ppartarr/reel/entity/index"
	"github.com/ppartarr/reel/logging"
	"github.com/ppartarr/reel/lyrics"
	"github.com/ppartarr/reel/provider"
	"github.com/ppartarr/reel/spotify"
	"github.com/ppartarr/reel/util"
	"github.com/ppartarr/reel/util/anchor"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// annotationBare marks commands that run without a session
const annotationBare = "bare"

type sessionKey struct{}

// Session holds everything a command needs, built once per process
// from configuration file, environment and flags.
type Session struct {
	Config     *config.Config
	Log        zerolog.Logger
	Window     *anchor.Window
	RunID      string
	Headless   bool
	YouTube    *provider.YouTube
	Finder     *provider.Finder
	Downloader *downloader.Downloader
	Lyrics     *lyrics.Genius // nil when disabled
	Index      *index.Index

	catalog *spotify.Client
}

func newSession(cmd *cobra.Command) (*Session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	var (
		flags = cmd.Flags()
		yes   = util.ErrWrap(false)(flags.GetBool("yes"))
	)
	if flags.Changed("lyrics") {
		cfg.Genius.Enabled = util.ErrWrap(false)(flags.GetBool("lyrics"))
	}
	if level := util.ErrWrap("")(flags.GetString("log-level")); level != "" {
		cfg.Log.Level = level
	}
	if format := util.ErrWrap("")(flags.GetString("log-format")); format != "" {
		cfg.Log.Format = format
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	session := &Session{
		Config:     cfg,
		Window:     anchor.New(anchor.Red),
		RunID:      uuid.NewString(),
		Headless:   yes || !isatty.IsTerminal(os.Stdin.Fd()),
		YouTube:    provider.NewYouTube(cfg.Search.Executable, config.Seconds(cfg.Search.SearchTimeout)),
		Downloader: downloader.New(cfg.Search.Executable, config.Seconds(cfg.Search.ArtworkTimeout), config.Seconds(cfg.Search.FetchTimeout)),
		Index:      index.New(),
	}
	session.Log = log.With().Str("run", session.RunID).Logger()
	cmd.Flags().Visit(func(f *pflag.Flag) {
		session.Log.Debug().Str("flag", f.Name).Str("value", f.Value.String()).Msg("flag set")
	})
	session.Finder = provider.NewFinder(session.YouTube, cfg.Search.Results, session.Log)
	if cfg.Lyrics() {
		session.Lyrics = lyrics.New(cfg.Genius.Token, config.Seconds(cfg.Search.LyricsTimeout))
	}
	return session, nil
}

// loadConfig reads the configuration and applies the library flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(util.ErrWrap("")(cmd.Flags().GetString("config")))
	if err != nil {
		return nil, err
	}
	if library := util.ErrWrap("")(cmd.Flags().GetString("library")); library != "" {
		path, err := config.ExpandPath(library)
		if err != nil {
			return nil, err
		}
		cfg.Library.Path = path
	}
	return cfg, nil
}

func sessionOf(cmd *cobra.Command) *Session {
	session, _ := cmd.Context().Value(sessionKey{}).(*Session)
	return session
}

// Spotify authenticates against the catalog on first use.
func (session *Session) Spotify(ctx context.Context) (*spotify.Client, error) {
	if session.catalog != nil {
		return session.catalog, nil
	}
	if err := session.Config.RequireSpotify(); err != nil {
		return nil, err
	}
	lot := session.Window.Lot("auth")
	lot.Printf("authenticating")
	client, err := spotify.Authenticate(ctx,
		session.Config.Spotify.ClientID,
		session.Config.Spotify.ClientSecret,
		config.Seconds(session.Config.Search.MetadataTimeout))
	if err != nil {
		lot.Release()
		return nil, err
	}
	lot.Close("done")
	session.catalog = client
	return client, nil
}

// Runner assembles the batch runner. Catalog metadata is mandatory
// unless optional is set, in which case missing credentials only
// degrade URL items to minimal tagging.
func (session *Session) Runner(ctx context.Context, optional bool) (*batch.Runner, error) {
	runner := &batch.Runner{
		Finder:    session.Finder,
		Inspector: session.YouTube,
		Installer: session.Pipeline(),
		Index:     session.Index,
		RunID:     session.RunID,
		Window:    session.Window,
		Log:       session.Log,
	}

	client, err := session.Spotify(ctx)
	switch {
	case err == nil:
		runner.Metadata = client
	case optional && errors.Is(err, config.ErrMissingSpotifyCredentials):
		session.Log.Warn().Msg("no spotify credentials, tracks will be tagged from video information only")
	default:
		return nil, err
	}

	if !session.Headless {
		runner.Decide = session.decide
		runner.Choose = session.choose
	}
	return runner, nil
}

func (session *Session) Pipeline() *batch.Pipeline {
	pipeline := &batch.Pipeline{
		Downloader: session.Downloader,
		Index:      session.Index,
		Window:     session.Window,
		Log:        session.Log,
	}
	if session.Lyrics != nil {
		pipeline.Lyrics = session.Lyrics
	}
	return pipeline
}
