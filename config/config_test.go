package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, env := range []string{EnvLibrary, EnvSpotifyClientID, EnvSpotifyClientSecret, EnvGeniusToken} {
		t.Setenv(env, "")
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, "Music Library", filepath.Base(cfg.Library.Path))
	assert.Equal(t, 20, cfg.Search.Results)
	assert.Equal(t, "yt-dlp", cfg.Search.Executable)
	assert.ErrorIs(t, cfg.RequireSpotify(), ErrMissingSpotifyCredentials)
	assert.False(t, cfg.Lyrics())
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	var (
		dir  = t.TempDir()
		path = filepath.Join(dir, "config.toml")
	)
	require.NoError(t, os.WriteFile(path, []byte(`
[library]
path = "`+filepath.ToSlash(dir)+`/music"

[spotify]
client_id = "file-id"
client_secret = "file-secret"

[search]
results = 10

[log]
level = "DEBUG"
`), 0o600))
	t.Setenv(EnvSpotifyClientSecret, "env-secret")
	t.Setenv(EnvGeniusToken, "genius")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "music"), cfg.Library.Path)
	assert.Equal(t, "file-id", cfg.Spotify.ClientID)
	assert.Equal(t, "env-secret", cfg.Spotify.ClientSecret)
	assert.Equal(t, 10, cfg.Search.Results)
	assert.Equal(t, 60, cfg.Search.SearchTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.HasSpotify())
	assert.True(t, cfg.Lyrics())
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, os.WriteFile(path, []byte("[search\n"), 0o600))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")

	require.NoError(t, os.WriteFile(path, []byte("[search]\nresults = 0\n"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "search.results")
}

func TestSetAndSave(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, cfg.Set("spotify.client_id", "id"))
	require.NoError(t, cfg.Set("spotify.client_secret", "secret"))
	require.NoError(t, cfg.Set("search.fetch_timeout", "120"))
	require.NoError(t, cfg.Set("genius.enabled", "false"))
	assert.Error(t, cfg.Set("search.fetch_timeout", "soon"))
	assert.Error(t, cfg.Set("search.results", "0"))
	assert.Error(t, cfg.Set("nothing", "x"))
	assert.Error(t, cfg.Set("spotify.nothing", "x"))
	assert.Error(t, cfg.Set("unknown.section", "x"))
	require.NoError(t, cfg.Set("search.results", "20"))
	require.NoError(t, cfg.Save(path))

	saved, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "id", saved.Spotify.ClientID)
	assert.Equal(t, 120, saved.Search.FetchTimeout)
	assert.False(t, saved.Genius.Enabled)

	settings := map[string]string{}
	for _, setting := range saved.Settings() {
		settings[setting[0]] = setting[1]
	}
	assert.Equal(t, "id", settings["spotify.client_id"])
	assert.Equal(t, "********", settings["spotify.client_secret"])
	assert.Equal(t, "", settings["genius.token"])
	assert.Equal(t, "120", settings["search.fetch_timeout"])
}

func TestDir(t *testing.T) {
	cfg := Default()
	cfg.Library.Path = "/music"
	assert.Equal(t, filepath.Join("/music", "Singles"), cfg.Dir(Singles, "ignored"))
	assert.Equal(t, filepath.Join("/music", "Albums", "After Hours Deluxe"), cfg.Dir(Albums, "After Hours: Deluxe"))
	assert.Equal(t, filepath.Join("/music", "CSV Imports", "export"), cfg.Dir(CSVImports, "export"))
}

func TestReadIgnoresEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[spotify]\nclient_id = \"file-id\"\n"), 0o600))
	t.Setenv(EnvSpotifyClientSecret, "env-secret")

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "file-id", cfg.Spotify.ClientID)
	assert.Empty(t, cfg.Spotify.ClientSecret)

	_, err = Read(filepath.Join(t.TempDir(), "missing.toml"))
	assert.NoError(t, err)
}
