package cmd

import (
	"github.com/ppartarr/reel/batch"
	"github.com/ppartarr/reel/config"
	"github.com/spf13/cobra"
)

func init() {
	cmdRoot.AddCommand(cmdTrack(), cmdURL())
}

func cmdTrack() *cobra.Command {
	return &cobra.Command{
		Use:     "track <track> <artist>",
		Short:   "Search and download a single track",
		Example: `  reel track "Blinding Lights" "The Weeknd"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := sessionOf(cmd)
			runner, err := session.Runner(cmd.Context(), false)
			if err != nil {
				return err
			}
			if !session.Headless {
				runner.Decide = session.approve
			}
			return session.sync(cmd.Context(), runner, collection{
				name:  args[0],
				dir:   session.Config.Dir(config.Singles, ""),
				items: []batch.Item{{Track: args[0], Artist: args[1]}},
			})
		},
	}
}

func cmdURL() *cobra.Command {
	return &cobra.Command{
		Use:   "url <url>",
		Short: "Download a single video as a tagged track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := sessionOf(cmd)
			runner, err := session.Runner(cmd.Context(), true)
			if err != nil {
				return err
			}
			if !session.Headless {
				runner.Decide = session.approve
			}
			return session.sync(cmd.Context(), runner, collection{
				name:  "url",
				dir:   session.Config.Dir(config.Singles, ""),
				items: []batch.Item{{URL: args[0]}},
			})
		},
	}
}
