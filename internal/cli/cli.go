package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cyclograph/pkg/buildinfo"
	"github.com/matzehuels/cyclograph/pkg/cache"
	"github.com/matzehuels/cyclograph/pkg/config"
	"github.com/matzehuels/cyclograph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cyclograph"

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

	// ConfigPath overrides the default config file location when set.
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "cyclograph",
		Short:        "Cyclograph generates directed graphs and counts their cycles",
		Long:         `Cyclograph builds deterministic directed graphs with a requested number of cycles, then finds the smallest matrix power whose trace matches a target cycle count. Graphs can be rendered to DOT, SVG, or PNG via Graphviz.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: XDG config dir)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.countCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads the config file once and memoizes it.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	path := c.ConfigPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			cfg := config.Default()
			c.cfg = &cfg
			return c.cfg, nil
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = &cfg
	return c.cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	backend, err := newCacheBackend(ctx, cfg, noCache)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "err", err)
		backend = cache.NewNullCache()
	}
	return pipeline.NewRunner(backend, nil, c.Logger), nil
}

// newCacheBackend builds the cache backend selected by the config.
func newCacheBackend(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}

	if cfg.Cache.Backend == config.BackendRedis {
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cyclograph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
