package playlist

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppartarr/reel/entity"
	"github.com/ppartarr/reel/util"
)

type Playlist struct {
	ID     string
	Name   string
	Owner  string
	Tracks []*entity.Track
}

type Encoder interface {
	// Add appends track, installed at path. An empty path stands for
	// the track's file name inside the playlist directory.
	Add(track *entity.Track, path string) error
	Close() error
}

// Encoder opens a playlist file of the given encoding inside dir.
// Track entries are referenced relative to dir.
func (playlist *Playlist) Encoder(dir, encoding string) (Encoder, error) {
	switch encoding {
	case "m3u":
		path := filepath.Join(dir, util.LegalizeFilename(playlist.Name)+".m3u")
		file, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return newM3UEncoder(file, dir)
	default:
		return nil, errors.New("unsupported encoding: " + encoding)
	}
}

type m3uEncoder struct {
	writer io.WriteCloser
	dir    string
}

func newM3UEncoder(writer io.WriteCloser, dir string) (Encoder, error) {
	if _, err := fmt.Fprintln(writer, "#EXTM3U"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	return &m3uEncoder{writer, dir}, nil
}

func (encoder *m3uEncoder) Add(track *entity.Track, path string) error {
	duration := track.Duration
	if duration <= 0 {
		duration = -1
	}
	entry := track.Path().Final()
	if path != "" {
		entry = util.ErrWrap(path)(filepath.Rel(encoder.dir, path))
	}
	_, err := fmt.Fprintf(encoder.writer, "#EXTINF:%d,%s - %s\n%s\n",
		duration, track.Artist(), track.Title, filepath.ToSlash(entry))
	return err
}

func (encoder *m3uEncoder) Close() error {
	return encoder.writer.Close()
}
