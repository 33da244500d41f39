package index

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/bogem/id3v2/v2"
	"github.com/ppartarr/reel/entity"
	"github.com/ppartarr/reel/entity/id3"
	"github.com/ppartarr/reel/util"
)

type Status int

const (
	// Offline tracks are on disk without catalog metadata
	Offline Status = iota
	// Installed tracks are on disk and tagged with a catalog ID
	Installed
	// Online tracks are being processed by the current run
	Online
	// Flush tracks have been tagged by the current run
	Flush
)

type Index struct {
	lock  sync.RWMutex
	paths map[string]Status // absolute path to status
	keys  map[string]string // normalized file stem to absolute path
	ids   map[string]string // catalog ID to absolute path
}

func New() *Index {
	return &Index{
		paths: make(map[string]Status),
		keys:  make(map[string]string),
		ids:   make(map[string]string),
	}
}

// Build walks root and registers every MP3 file it finds,
// reading their catalog ID when tagged.
func (index *Index) Build(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), "."+entity.TrackFormat) {
			return nil
		}

		status, id := Offline, ""
		if tag, err := id3.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"User defined text information frame"}}); err == nil {
			id = tag.SpotifyID()
			util.ErrSuppress(tag.Close())
		}
		if id != "" {
			status = Installed
		}
		index.SetPath(path, status)
		if id != "" {
			index.lock.Lock()
			index.ids[id] = index.abs(path)
			index.lock.Unlock()
		}
		return nil
	})
}

func (index *Index) abs(path string) string {
	return util.ErrWrap(path)(filepath.Abs(path))
}

func (index *Index) SetPath(path string, status Status) {
	index.lock.Lock()
	defer index.lock.Unlock()
	path = index.abs(path)
	index.paths[path] = status
	index.keys[key(util.FileBaseStem(path))] = path
}

// Set registers the status of track installed at path.
func (index *Index) Set(track *entity.Track, path string, status Status) {
	index.SetPath(path, status)
	if track.ID != "" {
		index.lock.Lock()
		index.ids[track.ID] = index.abs(path)
		index.lock.Unlock()
	}
}

func (index *Index) Get(path string) (Status, bool) {
	index.lock.RLock()
	defer index.lock.RUnlock()
	status, ok := index.paths[index.abs(path)]
	return status, ok
}

// Lookup returns the path a catalog ID is installed at.
func (index *Index) Lookup(id string) (string, bool) {
	index.lock.RLock()
	defer index.lock.RUnlock()
	path, ok := index.ids[id]
	return path, ok
}

// Similar returns the indexed path whose file name is closest to name,
// provided the edit distance does not exceed a tenth of its length.
func (index *Index) Similar(name string) (string, bool) {
	var (
		target   = key(util.FileBaseStem(name))
		best     string
		distance = len(target)/10 + 1
	)
	index.lock.RLock()
	defer index.lock.RUnlock()
	if path, ok := index.keys[target]; ok {
		return path, true
	}
	for stem, path := range index.keys {
		if d := levenshtein.ComputeDistance(target, stem); d < distance || (d == distance && path < best) {
			best, distance = path, d
		}
	}
	return best, best != ""
}

func (index *Index) Paths(statuses ...Status) (paths []string) {
	index.lock.RLock()
	defer index.lock.RUnlock()
	for path, status := range index.paths {
		if len(statuses) == 0 || slices.Contains(statuses, status) {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)
	return
}

func (index *Index) Size(statuses ...Status) int {
	return len(index.Paths(statuses...))
}

func key(stem string) string {
	return strings.Join(strings.Fields(strings.ToLower(stem)), " ")
}
