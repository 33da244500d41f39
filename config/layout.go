package config

import (
	"path/filepath"

	"github.com/ppartarr/reel/util"
)

// Kind identifies the library subtree a download is stored in.
type Kind string

const (
	Singles          Kind = "Singles"
	Albums           Kind = "Albums"
	CSVImports       Kind = "CSV Imports"
	URLImports       Kind = "URLs TXT"
	SpotifyPlaylists Kind = "Spotify Playlists"
	YouTubePlaylists Kind = "YouTube Playlists"
)

// Dir returns the directory for a collection of the given kind.
// Singles ignore the collection name.
func (c *Config) Dir(kind Kind, name string) string {
	if kind == Singles || name == "" {
		return filepath.Join(c.Library.Path, string(kind))
	}
	return filepath.Join(c.Library.Path, string(kind), util.LegalizeFilename(name))
}
