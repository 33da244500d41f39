package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ppartarr/reel/processor"
	"github.com/ppartarr/reel/provider"
	"github.com/ppartarr/reel/util"
	"github.com/ppartarr/reel/util/cmd"
)

var ErrEmptyOutput = errors.New("fetch produced no audio output")

type Downloader struct {
	client       *http.Client
	executable   string
	fetchTimeout time.Duration
}

// New returns a downloader whose HTTP blob transfers are bounded by
// blobTimeout and whose video fetches are bounded by fetchTimeout.
func New(executable string, blobTimeout, fetchTimeout time.Duration) *Downloader {
	return &Downloader{
		client:       &http.Client{Timeout: blobTimeout},
		executable:   executable,
		fetchTimeout: fetchTimeout,
	}
}

// Download stores the resource behind url at path, runs the optional
// processor over it and sends the resulting bytes to every channel.
// Video platform URLs are fetched as audio streams, anything else as
// a plain HTTP blob.
func (downloader *Downloader) Download(ctx context.Context, url, path string, p processor.Processor, channels ...chan []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var err error
	if provider.IsYouTube(url) {
		err = downloader.fetch(ctx, url, path)
	} else {
		err = downloader.blob(ctx, url, path)
	}
	if err != nil {
		return err
	}

	if p != nil {
		if err := p.Do(path); err != nil {
			return err
		}
	}
	if len(channels) == 0 {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for _, channel := range channels {
		channel <- data
	}
	return nil
}

func (downloader *Downloader) fetch(ctx context.Context, url, path string) error {
	if downloader.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, downloader.fetchTimeout)
		defer cancel()
	}

	// stale partial outputs would be kept by --no-overwrites
	util.ErrSuppress(os.Remove(path))
	if err := cmd.YouTubeDl(ctx, downloader.executable, url, path); err != nil {
		return err
	}
	if stat, err := os.Stat(path); err != nil || stat.Size() == 0 {
		return ErrEmptyOutput
	}
	return nil
}

func (downloader *Downloader) blob(ctx context.Context, url, path string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	response, err := downloader.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: %s", url, response.Status)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, response.Body); err != nil {
		return errors.Join(err, file.Close(), os.Remove(path))
	}
	return file.Close()
}
