// Package cli implements the flowgrid command-line interface.
//
// # Commands
//
//   - layout: pack items and print what the viewport shows
//   - render: write SVG, JSON, DOT, PNG or PDF images of a layout
//   - view: browse a layout interactively in the terminal
//   - serve: run the HTTP API
//   - config, cache: manage the config file and the result cache
//
// # Configuration
//
// Every command reads the TOML config file first (see package config); flags
// override it. The logger is attached to the command context and reachable
// through loggerFromContext.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgrid/pkg/cache"
	"github.com/matzehuels/flowgrid/pkg/config"
	"github.com/matzehuels/flowgrid/pkg/pipeline"
	"github.com/matzehuels/flowgrid/pkg/sizing"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "flowgrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty means the default location.
	ConfigPath string
	// Config is loaded before any subcommand runs.
	Config config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file and warns about keys it did not recognise.
func (c *CLI) loadConfig() error {
	cfg, undecoded, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	for _, k := range undecoded {
		c.Logger.Warn("unknown config key", "key", k)
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if ns := c.Config.Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(nil, ns)
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	runner.TTL = c.Config.Cache.TTL
	return runner, nil
}

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching; remote backends that cannot be reached are
// an error, since the user asked for them explicitly.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cc := c.Config.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch strings.ToLower(cc.Backend) {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		c.Logger.Debug("using redis cache", "addr", cc.RedisAddr)
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
			Prefix:   cc.RedisPrefix,
		})
	case config.BackendMongo:
		c.Logger.Debug("using mongo cache", "database", cc.MongoDatabase)
		return cache.NewMongoCache(ctx, cache.MongoOptions{
			URI:      cc.MongoURI,
			Database: cc.MongoDatabase,
		})
	}

	dir, err := c.Config.CacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	store, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return store, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions fills pipeline options from the loaded config. Flags are applied
// on top by each command.
func (c *CLI) baseOptions() (pipeline.Options, error) {
	cfg := c.Config
	policy, err := cfg.SizePolicy()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Tracks:      cfg.Grid.Tracks,
		Orientation: cfg.Grid.Orientation,
		Inset:       cfg.Grid.Inset,
		Width:       cfg.Viewport.Width,
		Height:      cfg.Viewport.Height,
		Count:       cfg.Items.Count,
		Policy:      policy,
		Logger:      c.Logger,
	}, nil
}

// gridFlags are the layout flags shared by layout, render and view.
type gridFlags struct {
	tracks      int
	orientation string
	inset       int
	width       int
	height      int
	count       int
	sizeFile    string
}

// apply overrides opts with every flag the user set.
func (f gridFlags) apply(opts *pipeline.Options, changed func(string) bool) error {
	if changed("tracks") {
		opts.Tracks = f.tracks
	}
	if changed("orientation") {
		opts.Orientation = f.orientation
	}
	if changed("inset") {
		opts.Inset = f.inset
	}
	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	if changed("count") {
		opts.Count = f.count
	}
	if f.sizeFile != "" {
		file, err := sizing.Load(f.sizeFile)
		if err != nil {
			return fmt.Errorf("load sizes %s: %w", f.sizeFile, err)
		}
		opts.Policy = file.Policy()
	}
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
