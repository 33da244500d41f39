package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var cmdRoot = &cobra.Command{
	Use:   "reel",
	Short: "Download tracks from video platforms, tagged with catalog metadata",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Annotations[annotationBare] == "true" {
			return nil
		}
		session, err := newSession(cmd)
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), sessionKey{}, session))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	flags := cmdRoot.PersistentFlags()
	flags.String("config", "", "Path to the configuration file")
	flags.StringP("library", "l", "", "Path to the music library")
	flags.BoolP("yes", "y", false, "Never prompt, accept what the matcher proposes")
	flags.Bool("lyrics", false, "Embed lyrics fetched from Genius")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (console, json)")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmdRoot.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
