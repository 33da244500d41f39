package cmd

import (
	"github.com/ppartarr/reel/batch"
	"github.com/ppartarr/reel/config"
	"github.com/ppartarr/reel/util"
	"github.com/spf13/cobra"
)

func init() {
	cmdRoot.AddCommand(cmdPlaylist())
}

func cmdPlaylist() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist <id|url>",
		Short: "Download a whole Spotify or YouTube playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				ctx     = cmd.Context()
				session = sessionOf(cmd)
				youtube = util.ErrWrap(false)(cmd.Flags().GetBool("youtube"))
			)

			if youtube {
				lot := session.Window.Lot("fetch")
				lot.Printf("playlist %s", args[0])
				list, err := session.YouTube.Playlist(ctx, args[0])
				if err != nil {
					lot.Release()
					return err
				}
				lot.Close(list.Title)

				items := make([]batch.Item, 0, len(list.Videos))
				for _, video := range list.Videos {
					items = append(items, batch.Item{URL: video.URL})
				}
				runner, err := session.Runner(ctx, true)
				if err != nil {
					return err
				}
				return session.sync(ctx, runner, collection{
					name:  list.Title,
					dir:   session.Config.Dir(config.YouTubePlaylists, list.Title),
					items: items,
					mix:   true,
				})
			}

			runner, err := session.Runner(ctx, false)
			if err != nil {
				return err
			}
			client, err := session.Spotify(ctx)
			if err != nil {
				return err
			}
			lot := session.Window.Lot("fetch")
			lot.Printf("playlist %s", args[0])
			list, err := client.Playlist(ctx, args[0])
			if err != nil {
				lot.Release()
				return err
			}
			lot.Close(list.Name)
			return session.sync(ctx, runner, collection{
				name:  list.Name,
				dir:   session.Config.Dir(config.SpotifyPlaylists, list.Name),
				items: records(list.Tracks),
				mix:   true,
			})
		},
	}
	cmd.Flags().Bool("youtube", false, "Treat the argument as a YouTube playlist")
	return cmd
}
