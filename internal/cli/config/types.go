// Package config provides configuration management for the pixi-animate CLI.
//
// It layers the shared project configuration from internal/config with
// CLI-only fields such as verbosity and output format.
package config

import (
	"time"

	sharedcfg "github.com/jiborobot/pixi-animate-extension/internal/config"
)

// Config holds all CLI configuration options.
type Config struct {
	Documents     []string      `koanf:"documents"`
	OutDir        string        `koanf:"out_dir"`
	TemplatesDir  string        `koanf:"templates_dir"`
	StatePath     string        `koanf:"state_path"`
	Compress      bool          `koanf:"compress"`
	Concurrency   int           `koanf:"concurrency"`
	WatchDebounce time.Duration `koanf:"watch_debounce"`
	Verbose       bool          `koanf:"verbose"`
	OutputFormat  string        `koanf:"output"`

	// ProjectRoot anchors relative paths; set by the loader
	ProjectRoot string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultOutDir        = sharedcfg.DefaultOutDir
	DefaultStateFile     = sharedcfg.DefaultStateFile
	DefaultWatchDebounce = sharedcfg.DefaultWatchDebounce
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// EnvPrefix is the prefix of environment variables read by the loader.
const EnvPrefix = "PIXIANIMATE_"
