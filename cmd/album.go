package cmd

import (
	"errors"
	"fmt"

	"github.com/ppartarr/reel/config"
	"github.com/ppartarr/reel/spotify"
	"github.com/ppartarr/reel/util"
	"github.com/spf13/cobra"
)

var errNoAlbum = errors.New("no album selected")

func init() {
	cmdRoot.AddCommand(cmdAlbum())
}

func cmdAlbum() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "album [id|url]",
		Short: "Download a whole album",
		Example: `  reel album 4yP0hdKOZPNshxUOjY0cZj
  reel album --search "After Hours" --artist "The Weeknd"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if util.ErrWrap("")(cmd.Flags().GetString("search")) != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				ctx     = cmd.Context()
				session = sessionOf(cmd)
				search  = util.ErrWrap("")(cmd.Flags().GetString("search"))
				artist  = util.ErrWrap("")(cmd.Flags().GetString("artist"))
			)
			client, err := session.Spotify(ctx)
			if err != nil {
				return err
			}

			id := ""
			if len(args) > 0 {
				id = args[0]
			} else {
				hits, err := client.SearchAlbums(ctx, search, artist)
				if err != nil {
					return err
				}
				hit, err := session.pickAlbum(hits)
				if err != nil {
					return err
				}
				id = hit.ID
			}

			album, err := client.Album(ctx, id)
			if err != nil {
				return err
			}
			runner, err := session.Runner(ctx, false)
			if err != nil {
				return err
			}
			name := album.Name
			if album.Artist != "" {
				name = fmt.Sprintf("%s - %s", album.Artist, album.Name)
			}
			return session.sync(ctx, runner, collection{
				name:  name,
				dir:   session.Config.Dir(config.Albums, name),
				items: records(album.Tracks),
				mix:   true,
			})
		},
	}
	cmd.Flags().StringP("search", "s", "", "Search the album by name instead of passing its ID")
	cmd.Flags().StringP("artist", "a", "", "Artist of the searched album")
	return cmd
}

// pickAlbum shows ranked search hits for the user to choose from.
// Headless runs only accept an exact top hit.
func (session *Session) pickAlbum(hits []spotify.AlbumHit) (*spotify.AlbumHit, error) {
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: search returned nothing", errNoAlbum)
	}
	if len(hits) > 10 {
		hits = hits[:10]
	}
	session.Window.Printf("%s", albumsTable(hits))
	if session.Headless {
		if hits[0].Score < spotify.AlbumExact {
			return nil, fmt.Errorf("%w: no exact match for the search, pick one interactively", errNoAlbum)
		}
		return &hits[0], nil
	}
	choice, ok := session.pick(len(hits), "Album")
	if !ok {
		return nil, errNoAlbum
	}
	return &hits[choice], nil
}
