package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conceptree/pkg/cache"
	"github.com/matzehuels/conceptree/pkg/config"
	"github.com/matzehuels/conceptree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "conceptree"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Settings are loaded from --config before any command runs; until then
	// they hold the defaults.
	Settings *config.Settings

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		Settings: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadSettings reads the --config file, if one was given.
func (c *CLI) loadSettings() error {
	if c.configPath == "" {
		return nil
	}
	s, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Settings = s
	c.Logger.Debug("loaded settings", "path", c.configPath)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, c.newKeyer(), c.Logger), nil
}

// newKeyer namespaces cache keys with the configured prefix, so deployments
// sharing one Redis instance do not see each other's entries. It returns nil
// (the default keyer) without a prefix.
func (c *CLI) newKeyer() cache.Keyer {
	if c.Settings.Cache.Prefix == "" {
		return nil
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Settings.Cache.Prefix)
}

// newCache picks the cache backend from the settings: Redis when an address
// is configured, else the file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	s := c.Settings.Cache
	if noCache || s.Disabled {
		return cache.NewNullCache(), nil
	}
	if s.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: s.RedisAddr})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// cacheDir returns the configured cache directory, or the per-user default.
func (c *CLI) cacheDir() (string, error) {
	if c.Settings.Cache.Dir != "" {
		return c.Settings.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutOptions seeds pipeline layout options from the settings.
func (c *CLI) layoutOptions() pipeline.Options {
	return pipeline.Options{
		MaxWidth:     c.Settings.Layout.MaxWidth,
		LayerSpacing: c.Settings.Layout.LayerSpacing,
		NodeSpacing:  c.Settings.Layout.NodeSpacing,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
