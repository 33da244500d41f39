// Package config loads reel settings from a TOML file, the environment
// and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"github.com/ppartarr/reel/util"
)

const (
	EnvLibrary             = "REEL_LIBRARY"
	EnvSpotifyClientID     = "SPOTIFY_CLIENT_ID"
	EnvSpotifyClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvGeniusToken         = "GENIUS_TOKEN"
)

var ErrMissingSpotifyCredentials = errors.New("spotify client id and secret are required, set them with `reel config set spotify.client_id <id>` or through " + EnvSpotifyClientID + "/" + EnvSpotifyClientSecret)

type Library struct {
	Path string `toml:"path"`
}

type Spotify struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Market       string `toml:"market"`
}

type Genius struct {
	Token   string `toml:"token"`
	Enabled bool   `toml:"enabled"`
}

// Search holds candidate search tuning and per-call timeouts, in seconds.
type Search struct {
	Executable      string `toml:"executable"`
	Results         int    `toml:"results"`
	MetadataTimeout int    `toml:"metadata_timeout"`
	SearchTimeout   int    `toml:"search_timeout"`
	FetchTimeout    int    `toml:"fetch_timeout"`
	ArtworkTimeout  int    `toml:"artwork_timeout"`
	LyricsTimeout   int    `toml:"lyrics_timeout"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Library Library `toml:"library"`
	Spotify Spotify `toml:"spotify"`
	Genius  Genius  `toml:"genius"`
	Search  Search  `toml:"search"`
	Log     Log     `toml:"log"`
}

func Default() Config {
	return Config{
		Library: Library{Path: filepath.Join(xdg.UserDirs.Music, "Music Library")},
		Genius:  Genius{Enabled: true},
		Search: Search{
			Executable:      "yt-dlp",
			Results:         20,
			MetadataTimeout: 15,
			SearchTimeout:   60,
			FetchTimeout:    600,
			ArtworkTimeout:  10,
			LyricsTimeout:   15,
		},
		Log: Log{Level: "info", Format: "console"},
	}
}

func DefaultPath() string {
	return util.ErrWrap(filepath.Join(xdg.ConfigHome, "reel", "config.toml"))(xdg.ConfigFile("reel/config.toml"))
}

// Load reads the configuration file at path (the default location when
// empty), tolerating its absence, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read decodes the file at path over the defaults, without looking at
// the environment. A missing file yields the defaults.
func Read(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("open config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	for env, field := range map[string]*string{
		EnvLibrary:             &c.Library.Path,
		EnvSpotifyClientID:     &c.Spotify.ClientID,
		EnvSpotifyClientSecret: &c.Spotify.ClientSecret,
		EnvGeniusToken:         &c.Genius.Token,
	} {
		if value, ok := os.LookupEnv(env); ok && strings.TrimSpace(value) != "" {
			*field = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalize() error {
	path, err := ExpandPath(c.Library.Path)
	if err != nil {
		return err
	}
	c.Library.Path = path
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Library.Path) == "" {
		return errors.New("library.path must not be empty")
	}
	if c.Search.Results < 1 || c.Search.Results > 50 {
		return fmt.Errorf("search.results must be within 1 and 50, got %d", c.Search.Results)
	}
	for name, timeout := range map[string]int{
		"search.metadata_timeout": c.Search.MetadataTimeout,
		"search.search_timeout":   c.Search.SearchTimeout,
		"search.fetch_timeout":    c.Search.FetchTimeout,
		"search.artwork_timeout":  c.Search.ArtworkTimeout,
		"search.lyrics_timeout":   c.Search.LyricsTimeout,
	} {
		if timeout <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// RequireSpotify fails unless Spotify credentials are configured.
func (c *Config) RequireSpotify() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return ErrMissingSpotifyCredentials
	}
	return nil
}

func (c *Config) HasSpotify() bool {
	return c.RequireSpotify() == nil
}

// Lyrics tells whether lyrics retrieval can be attempted.
func (c *Config) Lyrics() bool {
	return c.Genius.Enabled && c.Genius.Token != ""
}

func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Set assigns value to the setting addressed by a dotted key,
// e.g. "spotify.client_id".
func (c *Config) Set(key, value string) error {
	section, name, ok := strings.Cut(strings.ToLower(key), ".")
	if !ok {
		return fmt.Errorf("invalid key %q, expected <section>.<name>", key)
	}
	field, ok := lookup(reflect.ValueOf(c).Elem(), section)
	if !ok || field.Kind() != reflect.Struct {
		return fmt.Errorf("unknown section %q", section)
	}
	if field, ok = lookup(field, name); !ok {
		return fmt.Errorf("unknown setting %q", key)
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		number, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s expects a number: %w", key, err)
		}
		field.SetInt(int64(number))
	case reflect.Bool:
		flag, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects a boolean: %w", key, err)
		}
		field.SetBool(flag)
	default:
		return fmt.Errorf("unsupported setting %q", key)
	}
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

// Settings lists every setting as dotted key and value, secrets masked.
func (c *Config) Settings() (settings [][2]string) {
	root := reflect.ValueOf(c).Elem()
	for i := 0; i < root.NumField(); i++ {
		section := root.Field(i)
		sectionName := root.Type().Field(i).Tag.Get("toml")
		for j := 0; j < section.NumField(); j++ {
			var (
				name  = section.Type().Field(j).Tag.Get("toml")
				value = fmt.Sprint(section.Field(j).Interface())
			)
			if (strings.Contains(name, "secret") || name == "token") && value != "" {
				value = strings.Repeat("*", 8)
			}
			settings = append(settings, [2]string{sectionName + "." + name, value})
		}
	}
	return
}

func lookup(value reflect.Value, tag string) (reflect.Value, bool) {
	for i := 0; i < value.NumField(); i++ {
		if value.Type().Field(i).Tag.Get("toml") == tag {
			return value.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func ExpandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(filepath.Clean(path))
}
