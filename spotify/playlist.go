package spotify

import (
	"context"
	"errors"

	"github.com/zmb3/spotify/v2"
)

type Playlist struct {
	ID     string
	Name   string
	Owner  string
	Tracks []Result
}

// Playlist fetches a public playlist and every track item in it.
// Episodes and local files are left out.
func (client *Client) Playlist(ctx context.Context, id string) (*Playlist, error) {
	ctx, cancel := client.context(ctx)
	defer cancel()

	id = ParseID(id, "playlist")
	fullPlaylist, err := client.GetPlaylist(ctx, spotify.ID(id))
	if err != nil {
		return nil, wrap(err)
	}
	playlist := &Playlist{
		ID:    fullPlaylist.ID.String(),
		Name:  fullPlaylist.Name,
		Owner: fullPlaylist.Owner.DisplayName,
	}

	page, err := client.GetPlaylistItems(ctx, spotify.ID(id))
	if err != nil {
		return nil, wrap(err)
	}
	for {
		for _, item := range page.Items {
			if track := item.Track.Track; track != nil && track.ID != "" {
				playlist.Tracks = append(playlist.Tracks, fromFullTrack(*track))
			}
		}
		if err := client.NextPage(ctx, page); errors.Is(err, spotify.ErrNoMorePages) {
			break
		} else if err != nil {
			return nil, wrap(err)
		}
	}
	return playlist, nil
}
