// Package config loads the application configuration from a TOML file.
//
// The config file lives at ~/.config/cyclograph/config.toml (respecting
// XDG_CONFIG_HOME). Every field has a sensible default; a missing file is not
// an error, so a fresh install works without any setup.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cyclograph/pkg/errors"
	"github.com/matzehuels/cyclograph/pkg/graphgen"
	"github.com/matzehuels/cyclograph/pkg/render/nodelink"
)

// Cache backends accepted by [CacheConfig.Backend].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the application configuration.
type Config struct {
	// MaxNodes bounds the node count the CLI, TUI, and HTTP API accept.
	// 0 disables the bound.
	MaxNodes int `toml:"max_nodes"`

	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`    // file (default), redis, none
	Dir       string `toml:"dir"`        // file backend; empty means XDG cache dir
	RedisAddr string `toml:"redis_addr"` // redis backend, host:port
	RedisDB   int    `toml:"redis_db"`
}

// RenderConfig sets rendering defaults, overridable per command.
type RenderConfig struct {
	Format string `toml:"format"` // svg (default), png, dot
	Engine string `toml:"engine"` // circo (default), dot, neato
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen string `toml:"listen"` // listen address, host:port
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		MaxNodes: graphgen.DefaultMaxNodes,
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
		},
		Render: RenderConfig{
			Format: "svg",
			Engine: nodelink.DefaultEngine,
		},
		Server: ServerConfig{
			Listen: ":8080",
		},
	}
}

// Load reads the config file at path, applying defaults for unset fields.
// A missing file yields the defaults without error; a malformed file is an
// INVALID_CONFIG error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis, or none)", c.Cache.Backend)
	}
	if err := nodelink.ValidateEngine(c.Render.Engine); err != nil {
		return err
	}
	return nil
}

// DefaultPath returns the standard config file location, respecting
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "cyclograph", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cyclograph", "config.toml"), nil
}
