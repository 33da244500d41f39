package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ppartarr/reel/entity"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const searchLimit = 20

var (
	ErrNotFound  = errors.New("not found: private, deleted, invalid id or unavailable in region")
	ErrForbidden = errors.New("access denied by spotify")
	ErrNoMatch   = errors.New("no matching track")
)

type Client struct {
	*spotify.Client
	timeout time.Duration
}

// Authenticate obtains an application token through the client
// credentials flow. User-scoped endpoints are not reachable with it.
func Authenticate(ctx context.Context, id, secret string, timeout time.Duration) (*Client, error) {
	return authenticate(ctx, &clientcredentials.Config{
		ClientID:     id,
		ClientSecret: secret,
		TokenURL:     spotifyauth.TokenURL,
	}, timeout)
}

// authenticate bounds the token request, and later refreshes, by timeout.
func authenticate(ctx context.Context, config *clientcredentials.Config, timeout time.Duration) (*Client, error) {
	bounded := &http.Client{Timeout: timeout}
	token, err := config.Token(context.WithValue(ctx, oauth2.HTTPClient, bounded))
	if err != nil {
		return nil, fmt.Errorf("spotify authentication: %w", err)
	}
	refresh := context.WithValue(context.Background(), oauth2.HTTPClient, bounded)
	httpClient := oauth2.NewClient(refresh, oauth2.ReuseTokenSource(token, config.TokenSource(refresh)))
	return New(httpClient, timeout), nil
}

// New wraps an already authorized HTTP client.
func New(httpClient *http.Client, timeout time.Duration, options ...spotify.ClientOption) *Client {
	return &Client{spotify.New(httpClient, options...), timeout}
}

func (client *Client) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if client.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, client.timeout)
}

// SearchTracks runs a free-text track search and converts results
// into catalog records, preserving catalog ranking.
func (client *Client) SearchTracks(ctx context.Context, query string, limit int) ([]Result, error) {
	ctx, cancel := client.context(ctx)
	defer cancel()

	page, err := client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, wrap(err)
	}
	if page.Tracks == nil {
		return nil, nil
	}
	results := make([]Result, 0, len(page.Tracks.Tracks))
	for _, track := range page.Tracks.Tracks {
		results = append(results, fromFullTrack(track))
	}
	return results, nil
}

// Lookup resolves a (track, artist) pair into a full metadata record.
func (client *Client) Lookup(ctx context.Context, track, artist string) (*Result, error) {
	results, err := client.SearchTracks(ctx, track+" "+artist, searchLimit)
	if err != nil {
		return nil, err
	}
	if result, ok := Resolve(track, artist, results); ok {
		return result, nil
	}
	return nil, ErrNoMatch
}

// Record is Lookup returning the taggable entity.
func (client *Client) Record(ctx context.Context, track, artist string) (*entity.Track, error) {
	result, err := client.Lookup(ctx, track, artist)
	if err != nil {
		return nil, err
	}
	return result.Track(), nil
}

// Track fetches a single track by its catalog ID.
func (client *Client) Track(ctx context.Context, id string) (*Result, error) {
	ctx, cancel := client.context(ctx)
	defer cancel()

	track, err := client.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return nil, wrap(err)
	}
	result := fromFullTrack(*track)
	return &result, nil
}

func wrap(err error) error {
	var spotifyErr spotify.Error
	if errors.As(err, &spotifyErr) {
		switch spotifyErr.Status {
		case http.StatusNotFound, http.StatusBadRequest:
			return fmt.Errorf("%w (%s)", ErrNotFound, spotifyErr.Message)
		case http.StatusForbidden, http.StatusUnauthorized:
			return fmt.Errorf("%w (%s)", ErrForbidden, spotifyErr.Message)
		}
	}
	return err
}
