// Package config locates lifesync's directory and loads providers.json
// from it.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName names the directory under the XDG config root.
	AppName = "lifesync"

	// ProvidersFile lists the configured sources and sync tuning.
	ProvidersFile = "providers.json"
)

// Config carries the per-invocation settings taken from common flags.
type Config struct {
	// Dir holds providers.json.
	Dir string

	// Debug lowers the sync log level to debug.
	Debug bool

	// Quiet drops everything but errors and warnings.
	Quiet bool
}

// New returns a Config rooted at configDir, or at DefaultConfigDir when
// configDir is empty.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// DefaultConfigDir resolves $XDG_CONFIG_HOME/lifesync, falling back to
// $HOME/.config/lifesync.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// relative to the working directory
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ProvidersPath is Dir/providers.json.
func (c *Config) ProvidersPath() string {
	return filepath.Join(c.Dir, ProvidersFile)
}
