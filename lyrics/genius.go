// Package lyrics pulls song lyrics from Genius.
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	jsoniter "github.com/json-iterator/go"
	"github.com/ppartarr/reel/entity"
	"github.com/ppartarr/reel/util"
	"golang.org/x/text/cases"
)

const geniusAPI = "https://api.genius.com"

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	ErrNotFound     = errors.New("lyrics not found")
	ErrUnauthorized = errors.New("genius token rejected")
)

type Genius struct {
	token   string
	baseURL string
	client  *http.Client
}

type searchResponse struct {
	Response struct {
		Hits []struct {
			Type   string `json:"type"`
			Result struct {
				Title         string `json:"title"`
				URL           string `json:"url"`
				PrimaryArtist struct {
					Name string `json:"name"`
				} `json:"primary_artist"`
			} `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

func New(token string, timeout time.Duration) *Genius {
	return NewWithBaseURL(token, geniusAPI, timeout)
}

func NewWithBaseURL(token, baseURL string, timeout time.Duration) *Genius {
	return &Genius{token, strings.TrimSuffix(baseURL, "/"), &http.Client{Timeout: timeout}}
}

// Search returns the lyrics of track, served from the local
// cache when a previous run already scraped them.
func (genius *Genius) Search(ctx context.Context, track *entity.Track) (string, error) {
	cache := track.Path().Lyrics()
	if data, err := os.ReadFile(cache); err == nil && len(data) > 0 {
		return string(data), nil
	}

	page, err := genius.song(ctx, track.Song(), track.Artist())
	if err != nil {
		return "", err
	}
	lyrics, err := genius.scrape(ctx, page)
	if err != nil {
		return "", err
	}
	util.ErrSuppress(os.WriteFile(cache, []byte(lyrics), 0o644))
	return lyrics, nil
}

// song looks up the page URL of the best hit: the first one credited
// to artist, or the first song hit if none is.
func (genius *Genius) song(ctx context.Context, title, artist string) (string, error) {
	query := url.Values{"q": {title + " " + artist}}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, genius.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	request.Header.Set("Authorization", "Bearer "+genius.token)

	response, err := genius.client.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	switch response.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	default:
		return "", fmt.Errorf("genius search: %s", response.Status)
	}

	var body searchResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("genius search: %w", err)
	}

	var (
		folder   = cases.Fold()
		wanted   = folder.String(artist)
		fallback string
	)
	for _, hit := range body.Response.Hits {
		if hit.Type != "song" || hit.Result.URL == "" {
			continue
		}
		if fallback == "" {
			fallback = hit.Result.URL
		}
		if wanted != "" && strings.Contains(folder.String(hit.Result.PrimaryArtist.Name), wanted) {
			return hit.Result.URL, nil
		}
	}
	if fallback == "" {
		return "", ErrNotFound
	}
	return fallback, nil
}

func (genius *Genius) scrape(ctx context.Context, page string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, page, nil)
	if err != nil {
		return "", err
	}
	response, err := genius.client.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("genius page: %s", response.Status)
	}

	document, err := goquery.NewDocumentFromReader(response.Body)
	if err != nil {
		return "", err
	}
	var blocks []string
	document.Find(`div[data-lyrics-container="true"]`).Each(func(_ int, selection *goquery.Selection) {
		selection.Find("br").ReplaceWithHtml("\n")
		if text := strings.TrimSpace(selection.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		return "", ErrNotFound
	}
	return strings.Join(blocks, "\n"), nil
}
