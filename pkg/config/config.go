// Package config loads flowgrid settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/flowgrid/config.toml (or
// ~/.config/flowgrid/config.toml) unless a path is given explicitly. Every
// field has a default, so a missing file is not an error; command-line flags
// are applied on top of whatever the file sets.
//
//	[grid]
//	tracks = 3
//	orientation = "vertical"
//	inset = 8
//
//	[viewport]
//	width = 300
//	height = 600
//
//	[items]
//	count = 31
//	size_file = "sizes.toml"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/grid"
	"github.com/matzehuels/flowgrid/pkg/sizing"
)

const appName = "flowgrid"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the full configuration.
type Config struct {
	Grid     Grid     `toml:"grid"`
	Viewport Viewport `toml:"viewport"`
	Items    Items    `toml:"items"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
}

// Grid holds the packing parameters.
type Grid struct {
	Tracks      int    `toml:"tracks"`
	Orientation string `toml:"orientation"`
	Inset       int    `toml:"inset"`
}

// Viewport is the available size in pixels.
type Viewport struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Items describes the data set. SizeFile takes precedence over Pattern; with
// neither set the built-in demo sizes are used.
type Items struct {
	Count    int                 `toml:"count"`
	SizeFile string              `toml:"size_file"`
	Pattern  []grid.ItemSizeSpec `toml:"pattern"`
	Default  *grid.ItemSizeSpec  `toml:"default"`
	Repeat   bool                `toml:"repeat"`
}

// Cache selects and configures the result cache backend.
type Cache struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	RedisPrefix   string        `toml:"redis_prefix"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
	Namespace     string        `toml:"namespace"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	RequestTimeout  time.Duration `toml:"request_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Default returns the built-in configuration: the three-track vertical demo
// with 31 items in a 300x600 viewport, cached on disk.
func Default() Config {
	return Config{
		Grid:     Grid{Tracks: 3, Orientation: "vertical", Inset: 8},
		Viewport: Viewport{Width: 300, Height: 600},
		Items:    Items{Count: 31},
		Cache:    Cache{Backend: BackendFile, TTL: 7 * 24 * time.Hour, RedisAddr: "localhost:6379", RedisPrefix: appName + ":", MongoDatabase: appName},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  20 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config at path over the defaults. An empty path means the
// default location, where a missing file is fine; an explicit path must
// exist. Keys the file sets that no field matches are returned as undecoded
// so callers can warn about typos.
func Load(path string) (cfg Config, undecoded []string, err error) {
	cfg = Default()
	explicit := path != ""
	if !explicit {
		if path, err = Path(); err != nil {
			return cfg, nil, nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil, nil
	}
	if os.IsNotExist(err) {
		return cfg, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return cfg, nil, err
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	for _, k := range md.Undecoded() {
		undecoded = append(undecoded, k.String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, undecoded, err
	}
	return cfg, undecoded, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := c.GridConfig(); err != nil {
		return err
	}
	if err := errors.ValidateViewport(c.Viewport.Width, c.Viewport.Height); err != nil {
		return err
	}
	if err := errors.ValidateItemCount(c.Items.Count); err != nil {
		return err
	}
	switch strings.ToLower(c.Cache.Backend) {
	case BackendNone, BackendFile, BackendRedis, BackendMongo, "":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if strings.EqualFold(c.Cache.Backend, BackendMongo) && c.Cache.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend mongo needs mongo_uri")
	}
	return nil
}

// GridConfig converts the [grid] section into an engine configuration.
func (c Config) GridConfig() (grid.Config, error) {
	o, err := grid.ParseOrientation(c.Grid.Orientation)
	if err != nil {
		return grid.Config{}, err
	}
	gc := grid.Config{Tracks: c.Grid.Tracks, Orientation: o, BaseInset: c.Grid.Inset}
	if err := gc.Validate(); err != nil {
		return grid.Config{}, err
	}
	return gc, nil
}

// SizePolicy builds the item size policy from the [items] section.
func (c Config) SizePolicy() (grid.SizePolicy, error) {
	if c.Items.SizeFile != "" {
		f, err := sizing.Load(c.Items.SizeFile)
		if err != nil {
			return nil, err
		}
		return f.Policy(), nil
	}
	if len(c.Items.Pattern) == 0 && c.Items.Default == nil {
		return sizing.Demo(), nil
	}
	f := &sizing.File{Default: c.Items.Default, Pattern: c.Items.Pattern, Repeat: c.Items.Repeat}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f.Policy(), nil
}

// CacheDir returns the file cache directory, defaulting to the XDG cache
// location.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
