package provider

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/ppartarr/reel/match"
	"github.com/wader/goutubedl"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrEmptyPlaylist = errors.New("playlist is empty or unavailable")

// Video is a single upload on the video platform.
type Video struct {
	ID         string
	Title      string
	Duration   float64 // seconds, zero when unknown
	Uploader   string
	Thumbnail  string
	UploadDate string // YYYYMMDD
	URL        string
}

func (video *Video) Candidate() match.Candidate {
	return match.Candidate{
		Title:       video.Title,
		Duration:    video.Duration,
		HasDuration: video.Duration > 0,
		Locator:     video.URL,
		Uploader:    video.Uploader,
	}
}

func (video *Video) Year() int {
	if len(video.UploadDate) < 4 {
		return 0
	}
	year, _ := strconv.Atoi(video.UploadDate[:4])
	return year
}

type Playlist struct {
	ID     string
	Title  string
	Author string
	Videos []Video
}

// YouTube searches and inspects videos through yt-dlp.
type YouTube struct {
	executable string
	timeout    time.Duration
	output     func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewYouTube(executable string, timeout time.Duration) *YouTube {
	goutubedl.Path = executable
	return &YouTube{executable, timeout, output}
}

func output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	data, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return data, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return data, err
}

func (youtube *YouTube) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if youtube.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, youtube.timeout)
}

// Search returns up to limit videos for query, in platform ranking order.
func (youtube *YouTube) Search(ctx context.Context, query string, limit int) ([]match.Candidate, error) {
	ctx, cancel := youtube.context(ctx)
	defer cancel()

	data, err := youtube.output(ctx, youtube.executable,
		"--flat-playlist", "-j", "--no-warnings", "--force-ipv4",
		fmt.Sprintf("ytsearch%d:%s", limit, query))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	videos, _ := decode(data)
	candidates := make([]match.Candidate, 0, len(videos))
	for _, video := range videos {
		candidates = append(candidates, video.Candidate())
	}
	return candidates, nil
}

// Playlist lists the videos of a playlist without resolving each of them.
func (youtube *YouTube) Playlist(ctx context.Context, locator string) (*Playlist, error) {
	ctx, cancel := youtube.context(ctx)
	defer cancel()

	id := PlaylistID(locator)
	if id == "" {
		return nil, fmt.Errorf("no playlist id in %s", locator)
	}
	data, err := youtube.output(ctx, youtube.executable,
		"--flat-playlist", "-j", "--no-warnings", "--force-ipv4",
		"https://www.youtube.com/playlist?list="+id)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist: %w", err)
	}

	videos, header := decode(data)
	if len(videos) == 0 {
		return nil, ErrEmptyPlaylist
	}
	return &Playlist{ID: id, Title: header.PlaylistTitle, Author: header.PlaylistUploader, Videos: videos}, nil
}

// Inspect resolves the full information of a single video.
func (youtube *YouTube) Inspect(ctx context.Context, locator string) (*Video, error) {
	ctx, cancel := youtube.context(ctx)
	defer cancel()

	result, err := goutubedl.New(ctx, locator, goutubedl.Options{Type: goutubedl.TypeSingle})
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", locator, err)
	}

	info := result.Info
	video := &Video{
		ID:         info.ID,
		Title:      info.Title,
		Duration:   info.Duration,
		Uploader:   strings.TrimSuffix(firstNonEmpty(info.Uploader, info.Channel), " - Topic"),
		Thumbnail:  info.Thumbnail,
		UploadDate: info.UploadDate,
		URL:        firstNonEmpty(info.WebpageURL, locator),
	}
	return video, nil
}

type entry struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Duration         *float64 `json:"duration"`
	Channel          string   `json:"channel"`
	Uploader         string   `json:"uploader"`
	Thumbnail        string   `json:"thumbnail"`
	UploadDate       string   `json:"upload_date"`
	PlaylistTitle    string   `json:"playlist_title"`
	PlaylistUploader string   `json:"playlist_uploader"`
}

// decode parses yt-dlp JSON lines, skipping malformed ones.
// The first entry carrying playlist fields is returned as header.
func decode(data []byte) (videos []Video, header entry) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e entry
		if err := json.Unmarshal(line, &e); err != nil || e.ID == "" {
			continue
		}
		if header.PlaylistTitle == "" && e.PlaylistTitle != "" {
			header = e
		}

		video := Video{
			ID:         e.ID,
			Title:      e.Title,
			Uploader:   strings.TrimSuffix(firstNonEmpty(e.Channel, e.Uploader), " - Topic"),
			Thumbnail:  firstNonEmpty(e.Thumbnail, "https://i.ytimg.com/vi/"+e.ID+"/hqdefault.jpg"),
			UploadDate: e.UploadDate,
			URL:        WatchURL(e.ID),
		}
		if e.Duration != nil {
			video.Duration = *e.Duration
		}
		videos = append(videos, video)
	}
	return
}

func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// IsYouTube tells whether locator points to the video platform.
func IsYouTube(locator string) bool {
	parsed, err := url.Parse(locator)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	return host == "youtube.com" || host == "m.youtube.com" || host == "music.youtube.com" || host == "youtu.be"
}

// PlaylistID extracts the "list" parameter of a playlist URL.
func PlaylistID(locator string) string {
	parsed, err := url.Parse(locator)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("list")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
